package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/vertilift/vertilift-backend/pkg/config"
	"github.com/vertilift/vertilift-backend/pkg/db"
	"github.com/vertilift/vertilift-backend/pkg/logger"
	"github.com/vertilift/vertilift-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.Run(ctx, dbClient.DB()); err != nil {
		logg.Error(ctx, "migrations failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrations applied")
}
