package utils

import (
	"context"
	"time"
)

// Retry ejecuta fn hasta attempts veces. La espera se duplica tras cada fallo
// y nunca supera maxDelay.
func Retry(ctx context.Context, attempts int, delay, maxDelay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if delay *= 2; delay > maxDelay {
			delay = maxDelay
		}
	}
	return err
}
