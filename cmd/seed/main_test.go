package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finspeak/internal/storage"
)

func TestRun_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed.db")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	err := run([]string{"-db", dbPath, "-count", "5"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Seeded 5 expenses")

	store, err := storage.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	expenses := store.ListExpenses()
	require.Len(t, expenses, 5)
	for _, e := range expenses {
		assert.Positive(t, e.Amount)
		assert.True(t, e.Category.Valid(), "seeded category %q must be known", e.Category)
	}
}

func TestRun_InvalidCount(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	err := run([]string{"-count", "0"}, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count must be positive")
}

func TestRun_EnvVarOverride(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("DB_PATH", dbPath)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	err := run([]string{"-count", "3"}, stdout, stderr)
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
}

func TestRun_InvalidDBPath(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	// A directory is not a usable database file.
	err := run([]string{"-db", t.TempDir(), "-count", "1"}, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestRun_InvalidFlag(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	err := run([]string{"-invalid"}, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
}
