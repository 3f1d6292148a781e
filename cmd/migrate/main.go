package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/qfdstudio/hoq/internal/config"
	"github.com/qfdstudio/hoq/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := store.RunMigrations(context.Background(), cfg.Database.URL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")
}
