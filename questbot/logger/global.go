package logger

import (
	"log/slog"
	"time"
)

// LogCommand logs the outcome of a command.
func LogCommand(name string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "cmd"),
		slog.String("name", name),
		slog.Duration("took", duration),
	}
	if err != nil {
		slog.Error("Command failed", append(attrs, slog.Any("error", err))...)
		return
	}
	slog.Info("Command executed", attrs...)
}

// LogEvent logs a handled gateway event.
func LogEvent(msg string, attrs ...any) {
	slog.Info(msg, append([]any{slog.String("type", "event")}, attrs...)...)
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	slog.Info(msg, append([]any{slog.String("type", "sys")}, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	base := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(base, attrs...)...)
}
