// Package retrier implements a simple bounded-backoff retry loop.
package retrier

import (
	"context"
	"time"
)

const (
	defaultAttempts = 3
	defaultInterval = 50 * time.Millisecond
	defaultMaxWait  = 2 * time.Second
	backoffFactor   = 2
)

// Retrier retries an operation a bounded number of times with growing waits.
type Retrier struct {
	attempts int
	interval time.Duration
	maxWait  time.Duration
}

// New creates a Retrier with the default attempt budget.
func New() *Retrier {
	return &Retrier{attempts: defaultAttempts, interval: defaultInterval, maxWait: defaultMaxWait}
}

// NewWithAttempts creates a Retrier performing at most attempts tries with
// the given initial wait between them.
func NewWithAttempts(attempts int, interval time.Duration) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Retrier{attempts: attempts, interval: interval, maxWait: defaultMaxWait}
}

// Do runs fn until it succeeds, the attempt budget is exhausted or the
// context ends. The last error is returned on failure.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	wait := r.interval

	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= backoffFactor
			if wait > r.maxWait {
				wait = r.maxWait
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
	}
	return err
}
