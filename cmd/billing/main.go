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
	"github.com/redis/go-redis/v9"

	"github.com/pahana-edu/billing/internal/app"
	"github.com/pahana-edu/billing/internal/billing"
	"github.com/pahana-edu/billing/internal/cashiers"
	"github.com/pahana-edu/billing/internal/customers"
	"github.com/pahana-edu/billing/internal/masterdata"
	"github.com/pahana-edu/billing/internal/platform/db"
	"github.com/pahana-edu/billing/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	customerRepo := customers.NewRepository(pool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService)

	cashierRepo := cashiers.NewRepository(pool)
	cashierService := cashiers.NewService(cashierRepo)
	cashierHandler := cashiers.NewHandler(logger, cashierService)

	masterDataRepo := masterdata.NewRepository(pool)
	masterDataService := masterdata.NewService(masterDataRepo)
	masterDataHandler := masterdata.NewHandler(logger, masterDataService)

	billingRepo := billing.NewRepository(pool)
	billingService := billing.NewService(billingRepo)
	billingHandler := billing.NewHandler(logger, billingService, jobClient)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Pool:              pool,
		CustomerHandler:   customerHandler,
		CashierHandler:    cashierHandler,
		MasterDataHandler: masterDataHandler,
		BillingHandler:    billingHandler,
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
