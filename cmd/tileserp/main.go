package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/hindustan-tiles/tiles-erp/internal/app"
	"github.com/hindustan-tiles/tiles-erp/internal/auth"
	"github.com/hindustan-tiles/tiles-erp/internal/catalog"
	"github.com/hindustan-tiles/tiles-erp/internal/customers"
	"github.com/hindustan-tiles/tiles-erp/internal/invoices"
	"github.com/hindustan-tiles/tiles-erp/internal/ledger"
	"github.com/hindustan-tiles/tiles-erp/internal/payments"
	"github.com/hindustan-tiles/tiles-erp/internal/platform/cache"
	"github.com/hindustan-tiles/tiles-erp/internal/platform/db"
	"github.com/hindustan-tiles/tiles-erp/internal/returns"
	"github.com/hindustan-tiles/tiles-erp/internal/shared"
	"github.com/hindustan-tiles/tiles-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	tokens := auth.NewTokenStore(redisClient, cfg.SessionTTL)
	authService := auth.NewService(auth.NewRepository(dbpool), tokens)
	authHandler := auth.NewHandler(logger, authService)

	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	catalogService := catalog.NewService(catalog.NewRepository(dbpool))
	catalogHandler := catalog.NewHandler(logger, catalogService)

	customersService := customers.NewService(customers.NewRepository(dbpool))
	customersHandler := customers.NewHandler(logger, customersService)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	ledgerCache := ledger.NewCache(redisClient, cfg.LedgerCacheTTL)
	ledgerEvents := &ledger.Events{Logger: logger, Cache: ledgerCache, Enqueuer: jobsClient}

	invoicesRepo := invoices.NewRepository(dbpool)
	invoicesService := invoices.NewService(invoicesRepo, catalogService, customersService, idempotencyStore, ledgerEvents)
	invoicesHandler := invoices.NewHandler(logger, invoicesService)

	paymentsRepo := payments.NewRepository(dbpool)
	paymentsService := payments.NewService(paymentsRepo, invoicesService, ledgerEvents)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	returnsRepo := returns.NewRepository(dbpool)
	returnsService := returns.NewService(returnsRepo, invoicesService, catalogService, ledgerEvents)
	returnsHandler := returns.NewHandler(logger, returnsService)

	ledgerService := ledger.NewService(
		ledger.InvoiceAdapter{Repo: invoicesRepo},
		ledger.PaymentAdapter{Repo: paymentsRepo},
		ledger.ReturnAdapter{Repo: returnsRepo},
		ledgerCache,
	)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		CustomersHandler: customersHandler,
		InvoicesHandler:  invoicesHandler,
		PaymentsHandler:  paymentsHandler,
		ReturnsHandler:   returnsHandler,
		LedgerHandler:    ledgerHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
