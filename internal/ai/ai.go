// Package ai holds the clients for the external language-model services:
// structured expense extraction, speech-to-text transcription and the
// advisory/tips generator. All calls are single-shot; failures are reported
// to the caller and never retried here.
package ai

import (
	"errors"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"finspeak/internal/models"
)

var (
	// ErrExtraction is returned when the extraction service fails for any
	// reason (transport, service error, malformed response).
	ErrExtraction = errors.New("extraction failed")
	// ErrTranscription is returned when the transcription service fails.
	ErrTranscription = errors.New("transcription failed")
	// ErrAdvisory is returned when tips generation or question answering
	// fails. No partial results are returned alongside it.
	ErrAdvisory = errors.New("advisory request failed")
)

// Config configures the AI client. BaseURL makes the client point at any
// OpenAI-compatible endpoint, which is also how tests stub the service.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	AudioModel string
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = openai.GPT4oMini
	}
	if c.AudioModel == "" {
		c.AudioModel = openai.Whisper1
	}
	return c
}

// Client talks to the language-model backend. The price lookup used by the
// question-answering tool call is injected so tests can substitute it.
type Client struct {
	api    *openai.Client
	cfg    Config
	prices PriceLookup
	log    logrus.FieldLogger
}

// NewClient builds a client. A nil prices lookup falls back to the synthetic
// one.
func NewClient(cfg Config, prices PriceLookup, log logrus.FieldLogger) *Client {
	cfg = cfg.withDefaults()

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if prices == nil {
		prices = SyntheticPrices{}
	}

	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		cfg:    cfg,
		prices: prices,
		log:    log,
	}
}

// formatExpenses renders expense history the way the prompts expect it:
// one "- Category: Amount on date" line per record.
func formatExpenses(expenses []models.Expense) string {
	var b strings.Builder
	for _, e := range expenses {
		b.WriteString("- ")
		b.WriteString(string(e.Category))
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(e.Amount, 'f', -1, 64))
		b.WriteString(" on ")
		b.WriteString(e.Date.Format("2006-01-02"))
		b.WriteString("\n")
	}
	return b.String()
}
