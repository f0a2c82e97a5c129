package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	l.With("component", "scheduler").WithError(errors.New("boom")).Info("tick failed", "date", "2024-03-05")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "tick failed", rec["msg"])
	assert.Equal(t, "scheduler", rec["component"])
	assert.Equal(t, "boom", rec["error"])
	assert.Equal(t, "2024-03-05", rec["date"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: ParseLevel("warn"), Format: ParseFormat("text"), Output: &buf})
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParse(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestDefault(t *testing.T) {
	l := Discard()
	SetDefault(l)
	assert.Same(t, l, Default())
	assert.Same(t, l, l.WithError(nil))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "daybook.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	New(Config{Output: f}).Info("hello")
	assert.FileExists(t, path)
}
