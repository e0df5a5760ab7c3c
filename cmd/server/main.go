package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loyaltypos/internal/config"
	"loyaltypos/internal/infra"
	"loyaltypos/internal/repository"
	"loyaltypos/internal/router"
	"loyaltypos/internal/service"
	"loyaltypos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	lcfg, err := service.NewLoyaltyConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid loyalty configuration")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async tasks (receipts, email, snapshots).
	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	ghClient := infra.NewGitHubClient(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubBranch, cfg.GitHubSnapshotPath)
	snapshotCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	dispatcher := worker.NewDispatcher(rdb)
	customerRepo := repository.NewCustomerRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	ledgerSvc := service.NewLedgerService(paymentRepo, redemptionRepo, customerRepo, lcfg)

	receiptWorker := worker.NewReceiptWorker(dispatcher, cfg.PDFStoragePath)
	emailWorker := worker.NewEmailWorker(mailer)
	snapshotWorker := worker.NewSnapshotWorker(customerRepo, ghClient, snapshotCB)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		"receipt":  receiptWorker.Process,
		"email":    emailWorker.Process,
		"snapshot": snapshotWorker.Process,
	})

	// Periodic cached-balance sweep — expired points vanish from displayed
	// totals even for customers who never transact again.
	worker.StartRefreshCron(ctx, worker.RefreshCronConfig{
		Customers:  customerRepo,
		Ledger:     ledgerSvc,
		Dispatcher: dispatcher,
		Interval:   time.Duration(cfg.BalanceRefreshHours) * time.Hour,
	})

	r := router.New(cfg, lcfg, db, rdb, snapshotCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("LoyaltyPOS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
