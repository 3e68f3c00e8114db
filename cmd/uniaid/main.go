package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uniaid/internal/config"
	"uniaid/internal/handlers"
	"uniaid/internal/httpserver"
	"uniaid/internal/logging"
	"uniaid/internal/payment"
	"uniaid/internal/seed"
	"uniaid/internal/service"
	"uniaid/internal/store"
)

func main() {
	var cfg config.Config
	if err := cfg.ParseFlags(); err != nil {
		fmt.Println("Server configuration error:", err)
		os.Exit(1)
	}

	logging.Logg = logging.NewLogger(cfg.LogLevel, "text", "json", "both", cfg.LogFile)
	if logging.Logg == nil {
		fmt.Println("Failed to initialize logger")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cfg); err != nil {
		logging.Logg.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.DBDsn == "" {
		logging.Logg.Info("Using in-memory store")
		return store.NewMemory(), nil
	}
	logging.Logg.Info("Using PostgreSQL store")
	return store.NewDatabase(ctx, cfg.DBDsn)
}

func run(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	svc := service.New(st)
	if _, err := seed.Apply(ctx, st, svc.Identity, time.Now().UTC()); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	pool := payment.NewWorkerPool(ctx, payment.NewGateway(cfg.PaymentDelay), cfg.PaymentWorkers)
	pool.Start()
	defer pool.Stop()

	server := httpserver.New(cfg, handlers.NewServer(cfg, svc, pool))
	errc := server.Start()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	pool.Stop()
	return server.Shutdown(context.Background())
}
