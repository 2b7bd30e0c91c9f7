// Package log holds the process-wide structured logger.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// ParseLevel maps a level name to a slog level. Unknown names give WARN,
// which keeps interactive output quiet.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Setup initializes the global logger. Only the first call has an effect.
// A nil writer means stderr.
func Setup(level string, w io.Writer) {
	once.Do(func() {
		if w == nil {
			w = os.Stderr
		}
		opts := &slog.HandlerOptions{
			Level: ParseLevel(level),
		}
		handler := slog.NewJSONHandler(w, opts)
		logger = slog.New(handler)
		slog.SetDefault(logger)
	})
}

// Get returns the configured logger, or a default one if Setup hasn't been called.
func Get() *slog.Logger {
	if logger == nil {
		Setup("WARN", nil)
	}
	return logger
}

// SetSession tags the global logger with a session id and returns it.
// Loggers derived afterwards carry the id.
func SetSession(id string) *slog.Logger {
	l := Get().With(slog.String("session", id))
	logger = l
	slog.SetDefault(l)
	return l
}

// WithComponent returns the global logger with the component field set.
func WithComponent(name string) *slog.Logger {
	return Component(Get(), name)
}

// Component returns l with the component field set.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With(slog.String("component", name))
}
