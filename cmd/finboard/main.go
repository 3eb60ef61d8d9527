package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finboard/internal/amqp"
	"finboard/internal/config"
	apphttp "finboard/internal/http"
	"finboard/internal/service"
	"finboard/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the configured store; fall back to memory so the dashboard stays
	// usable when the database is unreachable.
	factory := store.NewFactory(logger)
	st, err := factory.Open(store.Config{
		Type:         store.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresConn: cfg.PostgresConn,
	})
	if err != nil {
		logger.Warn("Store initialization failed, falling back to in-memory store (data will not survive restarts)",
			"backend", cfg.DataBackend, "error", err)
		st = store.NewMemory()
	}
	defer st.Close()

	// Optional AMQP publisher for ledger events
	var opts []service.Option
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, ledger events disabled", "error", err)
		} else {
			defer amqpClient.Close()
			opts = append(opts, service.WithPublisher(amqpClient))
			logger.Info("AMQP client initialized, ledger events enabled", "exchange", cfg.AMQPExchange)
		}
	}

	ledger, err := service.NewLedger(ctx, st, opts...)
	if err != nil {
		logger.Warn("Ledger initialization failed, retrying on in-memory store", "error", err)
		st = store.NewMemory()
		ledger, err = service.NewLedger(ctx, st, opts...)
		if err != nil {
			logger.Error("Ledger initialization failed", "error", err)
			os.Exit(1)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, cfg.SecretKey, ledger)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting finboard server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
