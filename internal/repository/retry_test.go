package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsAfterConflicts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	err := WithRetry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return ErrVersionConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	err := WithRetry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return ErrVersionConflict
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_DoesNotRetryOtherErrors(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond}
	boom := errors.New("boom")

	calls := 0
	err := WithRetry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "only conflicts are worth retrying")
}

func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, Backoff: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- WithRetry(ctx, cfg, func(ctx context.Context) error {
			calls++
			return ErrVersionConflict
		})
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("retry loop did not observe cancellation")
	}
}

func TestWithRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), RetryConfig{}, func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
