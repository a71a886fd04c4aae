// Package retry provides a small retry policy shared by every external call
// site, replacing per-collaborator sleep loops.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Policy describes how an operation is retried: attempt budget, the
// randomized backoff window between attempts, and an optional classifier
// separating retryable from fatal errors.
type Policy struct {
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration

	// Retryable reports whether an error is worth another attempt.
	// Nil means every error is retryable.
	Retryable func(error) bool
}

// FetchPolicy is the bar-fetch policy: up to 3 attempts with a uniform
// random whole-second delay in [10s, 20s] between them.
func FetchPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		MinDelay:    10 * time.Second,
		MaxDelay:    20 * time.Second,
	}
}

// Do runs fn until it succeeds, the attempt budget is exhausted, the error
// classifies as fatal, or the context is cancelled. The last error is
// wrapped with the attempt count on exhaustion.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay()):
		}
	}

	return fmt.Errorf("retry exhausted after %d attempts: %w", p.MaxAttempts, lastErr)
}

// delay picks a uniform random whole-second duration in [MinDelay, MaxDelay].
func (p Policy) delay() time.Duration {
	if p.MaxDelay <= p.MinDelay {
		return p.MinDelay
	}
	minSec := int(p.MinDelay / time.Second)
	maxSec := int(p.MaxDelay / time.Second)
	if maxSec <= minSec {
		return p.MinDelay
	}
	return time.Duration(minSec+rand.Intn(maxSec-minSec+1)) * time.Second
}
