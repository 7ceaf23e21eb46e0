// Package logging configures colored structured logging with tint.
//
// Logs always go to stderr so they never mix with command output.
// LOG_LEVEL (debug, info, warn, error) overrides the configured level.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup installs a tint handler on stderr as the default logger and returns
// it. level is the configured level name; LOG_LEVEL wins when set.
func Setup(level string) *slog.Logger {
	return SetupWithWriter(os.Stderr, ParseLevel(level))
}

// SetupWithWriter installs a tint handler writing to w at level.
func SetupWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	logger := New(w, level)
	slog.SetDefault(logger)
	return logger
}

// New returns a tint logger without touching the default logger.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}))
}

// ParseLevel resolves a level name, letting LOG_LEVEL override it. Unknown
// names mean INFO.
func ParseLevel(configured string) slog.Level {
	name := configured
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		name = env
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// isTerminal reports whether w is a terminal that can show colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
