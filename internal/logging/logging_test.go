package logging

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestParseLevel_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, ParseLevel("error"))
}

func TestNew_WritesPlainTextToBuffers(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("treating malformed bills as empty", "key", "@faturalar")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "treating malformed bills as empty")
	assert.Contains(t, out, "key=@faturalar")
	assert.NotContains(t, out, "\x1b[", "no color codes outside a terminal")
}

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(f))
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
