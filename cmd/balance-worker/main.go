package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"finboard/internal/amqp"
	"finboard/internal/config"
	"finboard/internal/service"
	"finboard/internal/store"
)

// balance-worker runs the monthly balance triggers on a schedule so debt
// payments and salary credits land even when nobody opens the dashboard
// around month end.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting balance-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker has no reason to exist without durable storage. Unlike the
	// dashboard it refuses to run on the in-memory fallback.
	factory := store.NewFactory(logger)
	st, err := factory.Open(store.Config{
		Type:         store.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresConn: cfg.PostgresConn,
	})
	if err != nil {
		logger.Error("Store initialization failed", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opts []service.Option
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, ledger events disabled", "error", err)
		} else {
			defer amqpClient.Close()
			opts = append(opts, service.WithPublisher(amqpClient))
		}
	}

	ledger, err := service.NewLedger(ctx, st, opts...)
	if err != nil {
		logger.Error("Ledger initialization failed", "error", err)
		os.Exit(1)
	}

	sweep := func() {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, cfg.SweepTimeout)
		defer sweepCancel()

		count, err := ledger.Sweep(sweepCtx)
		if err != nil {
			logger.Error("Sweep failed", "error", err, "triggers_applied", count)
			return
		}
		logger.Info("Sweep complete", "triggers_applied", count)
	}

	// Run an initial sweep on startup to cover missed schedules.
	logger.Info("Running initial balance sweep...")
	sweep()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SweepSchedule, sweep); err != nil {
		logger.Error("Invalid sweep schedule", "schedule", cfg.SweepSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Balance sweep scheduled", "schedule", cfg.SweepSchedule)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(10 * time.Second):
		logger.Warn("Shutdown timeout reached waiting for running sweep")
	}
	logger.Info("Balance-worker shutdown complete")
}
