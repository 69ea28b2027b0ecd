package repositories

import (
	"log/slog"
	"time"
)

// queryLogger times a write and reports it once it finishes.
type queryLogger struct {
	operation string
	table     string
	attrs     []any
	start     time.Time
}

func newQueryLogger(operation, table string, attrs ...any) *queryLogger {
	return &queryLogger{operation: operation, table: table, attrs: attrs, start: time.Now()}
}

func (l *queryLogger) log(err error, rowsAffected int64) {
	attrs := append([]any{
		slog.String("type", "db"),
		slog.String("operation", l.operation),
		slog.String("table", l.table),
		slog.Duration("took", time.Since(l.start)),
	}, l.attrs...)

	if err != nil {
		slog.Error("Query failed", append(attrs, slog.Any("error", err))...)
		return
	}
	slog.Debug("Query executed", append(attrs, slog.Int64("affected_rows", rowsAffected))...)
}
