package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, new(bytes.Buffer))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "finspeak.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadFlags(t *testing.T) {
	args := []string{"-addr", ":9000", "-db", "/tmp/test.db", "-api-key", "sk-test", "-log-level", "debug"}
	cfg, err := Load(args, new(bytes.Buffer))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("ADDR", ":7070")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")

	cfg, err := Load(nil, new(bytes.Buffer))
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
}

func TestFlagBeatsEnv(t *testing.T) {
	t.Setenv("ADDR", ":7070")

	cfg, err := Load([]string{"-addr", ":9999"}, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
}

func TestLoadBadFlag(t *testing.T) {
	_, err := Load([]string{"-nope"}, new(bytes.Buffer))
	assert.Error(t, err)
}
