// Package service orchestrates expense intake: manual entries, free-text
// commands and finalized voice recordings all end up as stored expense
// records here.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"finspeak/internal/ai"
	"finspeak/internal/capture"
	"finspeak/internal/models"
	"finspeak/internal/storage"
)

// ErrNothingUnderstood is returned when transcription succeeds but yields no
// text. The extraction service is never called in that case.
var ErrNothingUnderstood = errors.New("could not understand audio")

// Extractor derives a structured expense from free-form text.
type Extractor interface {
	Extract(ctx context.Context, text string) (ai.Extraction, error)
}

// Transcriber converts an audio payload to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, p capture.Payload) (string, error)
}

// Expenses is the expense intake service.
type Expenses struct {
	store      *storage.Store
	extract    Extractor
	transcribe Transcriber
	log        logrus.FieldLogger
}

// NewExpenses wires the intake service.
func NewExpenses(store *storage.Store, extract Extractor, transcribe Transcriber, log logrus.FieldLogger) *Expenses {
	return &Expenses{store: store, extract: extract, transcribe: transcribe, log: log}
}

// AddManual records an expense entered through the manual form.
func (s *Expenses) AddManual(ctx context.Context, amount float64, category models.Category) (models.Expense, error) {
	e, err := models.NewExpense(amount, category)
	if err != nil {
		return models.Expense{}, err
	}
	if err := s.store.AddExpense(e); err != nil {
		return models.Expense{}, err
	}
	s.log.WithFields(logrus.Fields{"id": e.ID, "category": e.Category}).Info("expense added")
	return e, nil
}

// AddFromText runs a free-text command through extraction and stores the
// result. Extraction failures are terminal; the caller may resubmit.
func (s *Expenses) AddFromText(ctx context.Context, text string) (models.Expense, error) {
	res, err := s.extract.Extract(ctx, text)
	if err != nil {
		return models.Expense{}, err
	}
	return s.AddManual(ctx, res.Amount, res.Category)
}

// AddFromAudio transcribes a finalized recording and hands the text to
// extraction. An empty transcription yields ErrNothingUnderstood and is not
// forwarded downstream.
func (s *Expenses) AddFromAudio(ctx context.Context, p capture.Payload) (models.Expense, error) {
	if len(p.Data) == 0 {
		return models.Expense{}, fmt.Errorf("%w: %w", ErrNothingUnderstood, capture.ErrEmptyRecording)
	}

	text, err := s.transcribe.Transcribe(ctx, p)
	if err != nil {
		return models.Expense{}, err
	}
	if text == "" {
		return models.Expense{}, ErrNothingUnderstood
	}
	return s.AddFromText(ctx, text)
}
