package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// DefaultRetryDelays returns the backoff delays for render retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// WithRetry calls fn until it succeeds, waiting delays[i] before retry i+1.
// Errors with code EINVALID or ENOTFOUND are permanent and returned at
// once. Retries are logged at debug level when logger is not nil.
func WithRetry[T any](ctx context.Context, url string, delays []time.Duration, logger *slog.Logger, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger.Debug("retry", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}

func retryable(err error) bool {
	switch distill.ErrorCode(err) {
	case distill.EINVALID, distill.ENOTFOUND:
		return false
	}
	return true
}
