package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/vmunix/mediarr/internal/config"
	"github.com/vmunix/mediarr/internal/migrations"
	"github.com/vmunix/mediarr/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer(configPath string) error {
	// A .env next to the binary is a convenience for ${VAR} references in
	// the config file; a missing one is fine.
	_ = godotenv.Load()

	if configPath == "" {
		discovered, err := config.Discover()
		if err != nil {
			return err
		}
		configPath = discovered
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// One daemon per database.
	lock := flock.New(cfg.Database.Path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another mediarrd is already running against %s", cfg.Database.Path)
	}
	defer func() { _ = lock.Unlock() }()

	db, err := sql.Open("sqlite", cfg.Database.Path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("mediarrd starting",
		"version", version,
		"config", configPath,
		"database", cfg.Database.Path,
		"catchup", cfg.Catchup.Enabled,
		"session_monitor", cfg.Session != nil,
		"log_level", cfg.Server.LogLevel,
	)

	if err := server.NewRunner(db, cfg, logger).Run(ctx); err != nil {
		return err
	}

	logger.Info("mediarrd stopped")
	return nil
}
