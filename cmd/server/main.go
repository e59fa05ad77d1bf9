package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AIforimpact22/rawand/internal/config"
	"github.com/AIforimpact22/rawand/internal/logging"
	"github.com/AIforimpact22/rawand/internal/table"
	"github.com/AIforimpact22/rawand/internal/web"
	"github.com/AIforimpact22/rawand/internal/wizard"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"table_path", cfg.Table.Path,
		"session_ttl", cfg.Session.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Load the table, bootstrapping an empty file if needed
	store := table.NewStore(cfg.Table.Path)
	tbl, err := store.Load()
	if err != nil {
		slog.Error("failed to load table", "path", cfg.Table.Path, "error", err)
		os.Exit(1)
	}
	slog.Info("table loaded",
		"path", cfg.Table.Path,
		"columns", tbl.NumCols(),
		"rows", tbl.NumRows(),
	)

	manager := wizard.NewManager(store, tbl)

	// Create server with config
	server := web.NewServer(manager, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	// Expire idle wizard sessions in the background
	go manager.StartSweep(jobCtx, cfg.Session.SweepInterval, cfg.Session.TTL)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
