package logging

import (
	"io"
	"log/slog"
	"strings"
)

// SlogLogger adapts log/slog to Logger; fields become top-level attributes.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(w io.Writer, level, format string) *SlogLogger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return &SlogLogger{l: slog.New(h)}
}

func (s *SlogLogger) Slog() *slog.Logger {
	return s.l
}

func (s *SlogLogger) Info(msg string, fields map[string]any) {
	s.l.Info(msg, attrs(fields)...)
}

func (s *SlogLogger) Warn(msg string, fields map[string]any) {
	s.l.Warn(msg, attrs(fields)...)
}

func (s *SlogLogger) Error(msg string, fields map[string]any) {
	s.l.Error(msg, attrs(fields)...)
}

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields))
	for k, v := range fields {
		out = append(out, slog.Any(k, v))
	}
	return out
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
