// Package retry wraps storage calls in bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/questbot/questbot/internal/gateways/database/repositories"
)

const (
	maxTries   = 4
	maxElapsed = 10 * time.Second
)

// Storage runs fn until it succeeds, returns a permanent error, or runs out of tries.
func Storage[T any](ctx context.Context, op string, fn func(context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	return backoff.Retry(ctx, func() (T, error) {
		v, err := fn(ctx)
		if err != nil && permanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(maxTries),
		backoff.WithMaxElapsedTime(maxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("Storage operation failed, retrying",
				slog.String("type", "db"),
				slog.String("operation", op),
				slog.Duration("retry_in", next),
				slog.Any("error", err))
		}),
	)
}

// StorageErr is Storage for calls without a result.
func StorageErr(ctx context.Context, op string, fn func(context.Context) error) error {
	_, err := Storage(ctx, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func permanent(err error) bool {
	return repositories.IsNotFound(err) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
