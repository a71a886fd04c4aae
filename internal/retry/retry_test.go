package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	policy := Policy{MaxAttempts: 3}

	err := policy.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	policy := Policy{MaxAttempts: 3}

	err := policy.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustionWrapsLastError(t *testing.T) {
	sentinel := errors.New("still broken")
	calls := 0
	policy := Policy{MaxAttempts: 3}

	err := policy.Do(context.Background(), func() error {
		calls++
		return sentinel
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestDo_FatalErrorStopsEarly(t *testing.T) {
	fatal := errors.New("bad credentials")
	calls := 0
	policy := Policy{
		MaxAttempts: 3,
		Retryable:   func(err error) bool { return !errors.Is(err, fatal) },
	}

	err := policy.Do(context.Background(), func() error {
		calls++
		return fatal
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, fatal)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := Policy{MaxAttempts: 3}
	err := policy.Do(ctx, func() error { return errors.New("never retried") })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{MaxAttempts: 2, MinDelay: time.Minute, MaxDelay: time.Minute}

	done := make(chan error, 1)
	go func() {
		done <- policy.Do(ctx, func() error { return errors.New("transient") })
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestDelay_WithinWindow(t *testing.T) {
	policy := FetchPolicy()

	for i := 0; i < 100; i++ {
		d := policy.delay()
		assert.GreaterOrEqual(t, d, 10*time.Second)
		assert.LessOrEqual(t, d, 20*time.Second)
		// Whole seconds only.
		assert.Zero(t, d%time.Second)
	}
}
