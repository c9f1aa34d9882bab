// Package config loads server settings from flags with environment-variable
// fallbacks. A flag explicitly set on the command line always wins over the
// environment.
package config

import (
	"flag"
	"io"
	"os"
)

// Config holds everything the server needs to start.
type Config struct {
	Addr       string
	DBPath     string
	APIKey     string
	BaseURL    string
	Model      string
	AudioModel string
	LogLevel   string
}

// Load parses args into a Config. Environment variables (ADDR, DB_PATH,
// OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_MODEL, OPENAI_AUDIO_MODEL,
// LOG_LEVEL) fill in anything not set by a flag.
func Load(args []string, stderr io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := &Config{}
	fs.StringVar(&cfg.Addr, "addr", ":8080", "Listen address")
	fs.StringVar(&cfg.DBPath, "db", "finspeak.db", "Path to database file")
	fs.StringVar(&cfg.APIKey, "api-key", "", "API key for the AI backend")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Base URL of an OpenAI-compatible AI backend (default: the OpenAI API)")
	fs.StringVar(&cfg.Model, "model", "", "Chat model for extraction and advisory")
	fs.StringVar(&cfg.AudioModel, "audio-model", "", "Transcription model")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	fromEnv := func(flagName, envName string, dst *string) {
		if set[flagName] {
			return
		}
		if v := os.Getenv(envName); v != "" {
			*dst = v
		}
	}
	fromEnv("addr", "ADDR", &cfg.Addr)
	fromEnv("db", "DB_PATH", &cfg.DBPath)
	fromEnv("api-key", "OPENAI_API_KEY", &cfg.APIKey)
	fromEnv("base-url", "OPENAI_BASE_URL", &cfg.BaseURL)
	fromEnv("model", "OPENAI_MODEL", &cfg.Model)
	fromEnv("audio-model", "OPENAI_AUDIO_MODEL", &cfg.AudioModel)
	fromEnv("log-level", "LOG_LEVEL", &cfg.LogLevel)

	return cfg, nil
}
