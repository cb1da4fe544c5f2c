package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
)

func busyErr() error {
	return sqlite3.Error{Code: sqlite3.ErrBusy}
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{Backoff: []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}}
}

func TestRetryPolicy_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryPolicy_RetriesBusyThenSucceeds(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return busyErr()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryPolicy_ExhaustionSurfacesErrBusy(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), func() error {
		calls++
		return busyErr()
	})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
	// Initial attempt plus one per backoff step.
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestRetryPolicy_NonBusyErrorNotRetried(t *testing.T) {
	boom := errors.New("constraint violated")
	calls := 0
	err := fastPolicy().Do(context.Background(), func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want original error", err)
	}
	if errors.Is(err, ErrBusy) {
		t.Error("data error must never be conflated with ErrBusy")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryPolicy_ContextCancelAbortsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{Backoff: []time.Duration{time.Hour}}
	err := policy.Do(ctx, func() error { return busyErr() })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
