package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/hindustan-tiles/tiles-erp/internal/app"
	"github.com/hindustan-tiles/tiles-erp/internal/catalog"
	"github.com/hindustan-tiles/tiles-erp/internal/invoices"
	"github.com/hindustan-tiles/tiles-erp/internal/ledger"
	"github.com/hindustan-tiles/tiles-erp/internal/payments"
	"github.com/hindustan-tiles/tiles-erp/internal/platform/cache"
	"github.com/hindustan-tiles/tiles-erp/internal/platform/db"
	"github.com/hindustan-tiles/tiles-erp/internal/returns"
	"github.com/hindustan-tiles/tiles-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalogService := catalog.NewService(catalog.NewRepository(pool))

	ledgerCache := ledger.NewCache(redisClient, cfg.LedgerCacheTTL)
	ledgerService := ledger.NewService(
		ledger.InvoiceAdapter{Repo: invoices.NewRepository(pool)},
		ledger.PaymentAdapter{Repo: payments.NewRepository(pool)},
		ledger.ReturnAdapter{Repo: returns.NewRepository(pool)},
		ledgerCache,
	)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Ledger:    ledgerService,
		Catalog:   catalogService,
		Cron: []jobs.CronRegistration{
			{Spec: "30 1 * * *", Task: jobs.NewStockIntegrityTask()},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
