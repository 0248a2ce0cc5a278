package logger

import (
	"log/slog"
	"time"
)

// LogImport logs one pass of the key importer
func LogImport(source string, read, inserted int, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "import"),
		slog.String("source", source),
		slog.Int("read", read),
		slog.Int("inserted", inserted),
		slog.Duration("took", duration),
	}

	switch {
	case err != nil:
		slog.Error("Key import failed", append(attrs, slog.Any("error", err))...)
	case inserted > 0:
		slog.Info("Keys imported", attrs...)
	default:
		slog.Debug("No new keys", attrs...)
	}
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
