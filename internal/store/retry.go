package store

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy retries an operation that fails with transient lock
// contention. The backoff schedule length is the number of retries after
// the initial attempt; when the schedule is exhausted the operation fails
// with ErrBusy.
type RetryPolicy struct {
	Backoff []time.Duration
}

// DefaultRetryPolicy matches the documented contention budget:
// three retries at 500ms, 1s, 1.5s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Backoff: []time.Duration{
			500 * time.Millisecond,
			1 * time.Second,
			1500 * time.Millisecond,
		},
	}
}

// Do runs op, retrying on busy errors per the backoff schedule.
// Non-contention errors are returned immediately. Context cancellation
// during a backoff wait aborts the retry loop.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || !isBusy(err) {
		return err
	}

	for _, delay := range p.Backoff {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		err = op()
		if err == nil || !isBusy(err) {
			return err
		}
	}

	return fmt.Errorf("%w: %v", ErrBusy, err)
}
