package worker

// refresh_cron.go
// Background goroutine that periodically recomputes every customer's cached
// point balance, so expired points disappear from the displayed totals even
// when the customer never transacts. After each sweep a remote snapshot job
// is enqueued.

import (
	"context"
	"time"

	"loyaltypos/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BalanceRefresher recomputes and persists one customer's cached balance.
// Satisfied by service.LedgerService.
type BalanceRefresher interface {
	RefreshCachedBalance(ctx context.Context, phone string, ref time.Time) (decimal.Decimal, error)
}

// RefreshCronConfig holds all dependencies for the refresh goroutine.
type RefreshCronConfig struct {
	Customers  repository.CustomerRepository
	Ledger     BalanceRefresher
	Dispatcher *Dispatcher
	Interval   time.Duration
}

// StartRefreshCron launches the periodic cached-balance sweep.
// It respects the context for graceful shutdown.
func StartRefreshCron(ctx context.Context, cfg RefreshCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("refresh_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("refresh_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, cfg)
			}
		}
	}()
}

func sweep(ctx context.Context, cfg RefreshCronConfig) {
	now := time.Now().UTC()
	customers, err := cfg.Customers.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("refresh_cron: failed to list customers")
		return
	}

	refreshed := 0
	for _, c := range customers {
		if _, err := cfg.Ledger.RefreshCachedBalance(ctx, c.Phone, now); err != nil {
			log.Warn().Err(err).Str("phone", c.Phone).Msg("refresh_cron: refresh failed")
			continue
		}
		refreshed++
	}
	log.Info().Int("refreshed", refreshed).Int("total", len(customers)).Msg("refresh_cron: sweep complete")

	if cfg.Dispatcher != nil {
		if err := cfg.Dispatcher.EnqueueSnapshot(ctx, SnapshotJobPayload{Reason: "scheduled sweep"}); err != nil {
			log.Warn().Err(err).Msg("refresh_cron: failed to enqueue snapshot")
		}
	}
}
