package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finspeak/internal/ai"
	"finspeak/internal/capture"
	"finspeak/internal/models"
	"finspeak/internal/storage"
)

type fakeExtractor struct {
	result ai.Extraction
	err    error
	gotTxt string
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, text string) (ai.Extraction, error) {
	f.calls++
	f.gotTxt = text
	return f.result, f.err
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ capture.Payload) (string, error) {
	f.calls++
	return f.text, f.err
}

func newTestService(t *testing.T, extract *fakeExtractor, transcribe *fakeTranscriber) (*Expenses, *storage.Store) {
	t.Helper()
	store, err := storage.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewExpenses(store, extract, transcribe, log), store
}

func TestAddManual(t *testing.T) {
	svc, store := newTestService(t, &fakeExtractor{}, &fakeTranscriber{})

	e, err := svc.AddManual(context.Background(), 500, models.CategoryFood)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)

	stored := store.ListExpenses()
	require.Len(t, stored, 1)
	assert.Equal(t, e.ID, stored[0].ID)
	assert.Equal(t, 500.0, stored[0].Amount)
	assert.Equal(t, models.CategoryFood, stored[0].Category)
}

func TestAddManualInvalid(t *testing.T) {
	svc, store := newTestService(t, &fakeExtractor{}, &fakeTranscriber{})

	_, err := svc.AddManual(context.Background(), 0, models.CategoryFood)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
	assert.Empty(t, store.ListExpenses())
}

func TestAddFromText(t *testing.T) {
	extract := &fakeExtractor{result: ai.Extraction{Amount: 250, Category: models.CategoryTravel}}
	svc, store := newTestService(t, extract, &fakeTranscriber{})

	e, err := svc.AddFromText(context.Background(), "250 for the train ticket")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTravel, e.Category)
	assert.Equal(t, "250 for the train ticket", extract.gotTxt)
	assert.Len(t, store.ListExpenses(), 1)
}

func TestAddFromTextExtractionFailure(t *testing.T) {
	extract := &fakeExtractor{err: ai.ErrExtraction}
	svc, store := newTestService(t, extract, &fakeTranscriber{})

	_, err := svc.AddFromText(context.Background(), "gibberish")
	assert.ErrorIs(t, err, ai.ErrExtraction)
	assert.Empty(t, store.ListExpenses(), "nothing may be stored on failure")
}

func TestAddFromAudio(t *testing.T) {
	extract := &fakeExtractor{result: ai.Extraction{Amount: 90, Category: models.CategoryBills}}
	transcribe := &fakeTranscriber{text: "ninety for electricity"}
	svc, store := newTestService(t, extract, transcribe)

	e, err := svc.AddFromAudio(context.Background(), capture.Payload{MIME: "audio/webm", Data: []byte("audio")})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryBills, e.Category)
	assert.Equal(t, "ninety for electricity", extract.gotTxt)
	assert.Len(t, store.ListExpenses(), 1)
}

func TestAddFromAudioEmptyPayload(t *testing.T) {
	transcribe := &fakeTranscriber{text: "should not be reached"}
	svc, _ := newTestService(t, &fakeExtractor{}, transcribe)

	_, err := svc.AddFromAudio(context.Background(), capture.Payload{MIME: "audio/webm"})
	assert.ErrorIs(t, err, ErrNothingUnderstood)
	assert.Zero(t, transcribe.calls, "transcription must not run for an empty payload")
}

func TestAddFromAudioEmptyTranscription(t *testing.T) {
	extract := &fakeExtractor{}
	transcribe := &fakeTranscriber{text: ""}
	svc, store := newTestService(t, extract, transcribe)

	_, err := svc.AddFromAudio(context.Background(), capture.Payload{MIME: "audio/webm", Data: []byte("audio")})
	assert.ErrorIs(t, err, ErrNothingUnderstood)
	assert.Zero(t, extract.calls, "empty text must not be forwarded to extraction")
	assert.Empty(t, store.ListExpenses())
}

func TestAddFromAudioTranscriptionFailure(t *testing.T) {
	transcribe := &fakeTranscriber{err: ai.ErrTranscription}
	svc, _ := newTestService(t, &fakeExtractor{}, transcribe)

	_, err := svc.AddFromAudio(context.Background(), capture.Payload{MIME: "audio/webm", Data: []byte("audio")})
	assert.ErrorIs(t, err, ai.ErrTranscription)
}
