package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Retry runs fn up to attempts times while it fails with ErrConcurrencyConflict,
// backing off linearly between attempts. Any other error is returned at once.
func Retry(ctx context.Context, attempts int, backoff time.Duration, fn func(ctx context.Context) error) error {
	var err error

	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, ErrConcurrencyConflict) || attempt >= attempts {
			return err
		}

		slog.Warn("retrying after concurrency conflict", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(time.Duration(attempt) * backoff):
		}
	}
}
