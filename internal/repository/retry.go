package repository

import (
	"context"
	"errors"
	"time"
)

// RetryConfig bounds the optimistic-concurrency retry loop around customer
// writes. Defaults mirror the store's historical behaviour: 3 attempts with a
// 800ms pause between them.
type RetryConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, Backoff: 800 * time.Millisecond}
}

// WithRetry runs fn, repeating the whole read-modify-write cycle when it
// fails with ErrVersionConflict. Any other error — and a conflict on the last
// attempt — is returned as-is; there is no partial commit to clean up because
// the conflicting write never landed.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, ErrVersionConflict) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.Backoff):
		}
	}
	return err
}
