// Package retry wraps external-collaborator calls in a bounded retry with
// linear backoff. The workflow layer never retries; every generator call goes
// through Do so a caller only ever sees the eventual success or the terminal
// failure.
package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultAttempts is the number of tries a model call gets before failing.
const DefaultAttempts = 3

// DefaultBackoff is the base delay; attempt n waits n times this.
const DefaultBackoff = time.Second

// Do runs fn up to attempts times, sleeping base*attempt between tries.
// The last error is returned unwrapped so its message reaches the user
// verbatim. Context cancellation aborts the wait and returns immediately.
func Do[T any](ctx context.Context, attempts int, base time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Int("max", attempts).Msg("Generation call failed")
		if attempt == attempts {
			break
		}

		select {
		case <-time.After(base * time.Duration(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}
