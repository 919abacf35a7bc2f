package client

import (
	"context"
	"errors"
	"time"

	syncerrors "staysync/pkg/errors"
)

// RetryPolicy is an explicit bounded retry for transport failures: a fixed
// number of attempts with linear backoff. Protocol errors are never retried;
// only transport-classified failures count against the budget.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// RetryResult reports how the retried call ended.
type RetryResult struct {
	Attempts  int
	Exhausted bool
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. On exhaustion the last transport error is
// returned with Exhausted set.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) (RetryResult, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return RetryResult{Attempts: attempt}, nil
		}

		if !isRetryable(lastErr) {
			return RetryResult{Attempts: attempt}, lastErr
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return RetryResult{Attempts: attempt}, ctx.Err()
			case <-time.After(p.Backoff * time.Duration(attempt)):
			}
		}
	}

	return RetryResult{Attempts: attempts, Exhausted: true}, lastErr
}

func isRetryable(err error) bool {
	var syncErr *syncerrors.SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Code == syncerrors.CodeTransport
	}
	return false
}
