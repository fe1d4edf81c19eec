package extract

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// waitFor polls check every interval until it reports true or timeout
// elapses. Running out of time is not an error; only cancellation of ctx is.
func waitFor(ctx context.Context, check func() bool, timeout, interval time.Duration) error {
	if check() {
		return nil
	}
	if timeout <= 0 {
		return ctx.Err()
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(max(interval, time.Millisecond)), 1)
	limiter.Allow()
	for {
		if err := limiter.Wait(waitCtx); err != nil {
			// Budget exhausted: one last look before giving up.
			check()
			return ctx.Err()
		}
		if check() {
			return nil
		}
	}
}

// sleep pauses for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
