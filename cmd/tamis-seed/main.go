package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mr1hm/tamis/internal/config"
	"github.com/mr1hm/tamis/internal/logging"
	"github.com/mr1hm/tamis/internal/repository"
	"github.com/mr1hm/tamis/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var src seed.Source = seed.NewDirSource(cfg.Seed.Dir)
	if cfg.Seed.URL != "" {
		src = seed.NewHTTPSource(cfg.Seed.URL)
	}

	res, err := seed.NewSeeder(src, db, cfg.Worker.Count).Run(ctx)
	if err != nil {
		db.Close()
		logging.Fatalf("Seed failed: %v", err)
	}

	counts, err := db.Counts(ctx)
	if err != nil {
		slog.Warn("error counting records", "error", err)
	}
	slog.Info("seed finished", "seeded", res.Counts, "stored", counts, "duration", res.Duration)
}
