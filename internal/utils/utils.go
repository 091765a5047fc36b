package utils

import (
	"context"
	"time"
)

// WaitFor blocks for the duration or until the context ends, whichever comes
// first. Used to pace email deliveries and solver retries.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
