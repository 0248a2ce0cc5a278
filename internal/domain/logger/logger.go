package logger

import (
	"log/slog"
	"time"
)

// QueryLogger times one repository operation and logs its outcome.
type QueryLogger struct {
	Operation string
	Entity    string
	Attrs     []any
	StartTime time.Time
}

func NewQueryLogger(operation, entity string, attrs ...any) *QueryLogger {
	return &QueryLogger{
		Operation: operation,
		Entity:    entity,
		Attrs:     attrs,
		StartTime: time.Now(),
	}
}

// Log records a finished operation. Expected rejections (no keys, duplicate
// claim) go through Reject so they are not logged as failures.
func (l *QueryLogger) Log(err error, rowsAffected int64) {
	attrs := append([]any{
		slog.String("type", "db"),
		slog.String("operation", l.Operation),
		slog.String("entity", l.Entity),
		slog.Duration("took", time.Since(l.StartTime)),
	}, l.Attrs...)

	if err != nil {
		slog.Error("Query failed", append(attrs, slog.Any("error", err))...)
		return
	}

	slog.Debug("Query executed", append(attrs, slog.Int64("affected_rows", rowsAffected))...)
}

func (l *QueryLogger) Reject(reason error) {
	slog.Debug("Query rejected",
		append([]any{
			slog.String("type", "db"),
			slog.String("operation", l.Operation),
			slog.String("entity", l.Entity),
			slog.Duration("took", time.Since(l.StartTime)),
			slog.String("reason", reason.Error()),
		}, l.Attrs...)...)
}
