package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/vertilift/vertilift-backend/api/routes"
	checkoutsvc "github.com/vertilift/vertilift-backend/internal/checkout"
	"github.com/vertilift/vertilift-backend/internal/orders"
	"github.com/vertilift/vertilift-backend/internal/quotes"
	"github.com/vertilift/vertilift-backend/pkg/checkout"
	"github.com/vertilift/vertilift-backend/pkg/config"
	"github.com/vertilift/vertilift-backend/pkg/db"
	"github.com/vertilift/vertilift-backend/pkg/logger"
	"github.com/vertilift/vertilift-backend/pkg/migrate"
	"github.com/vertilift/vertilift-backend/pkg/outbox"
	"github.com/vertilift/vertilift-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

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

	if cfg.App.IsDev() {
		if err := migrate.Run(ctx, dbClient.DB()); err != nil {
			logg.Error(ctx, "failed to run dev migrations", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), outboxSvc)
	if err != nil {
		logg.Error(ctx, "failed to build orders service", err)
		os.Exit(1)
	}

	quotesSvc, err := quotes.NewService(
		quotes.NewRepository(dbClient.DB()), dbClient, outboxSvc, ordersSvc, cfg.Quotes)
	if err != nil {
		logg.Error(ctx, "failed to build quotes service", err)
		os.Exit(1)
	}

	maxOrderValue, err := cfg.Checkout.MaxOrderValueDecimal()
	if err != nil {
		logg.Error(ctx, "invalid checkout limits", err)
		os.Exit(1)
	}
	pickupRepo := checkoutsvc.NewPickupLocationRepository(dbClient.DB())
	checkoutSvc, err := checkoutsvc.NewService(dbClient, ordersSvc, quotesSvc, pickupRepo, checkout.OrderLimits{
		MaxOrderValue:      maxOrderValue,
		MaxQuantityPerItem: cfg.Checkout.MaxQuantityPerItem,
	})
	if err != nil {
		logg.Error(ctx, "failed to build checkout service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.RouterParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Redis:      redisClient,
		Quotes:     quotesSvc,
		Checkout:   checkoutSvc,
		Orders:     ordersSvc,
		PickupRepo: pickupRepo,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"port": cfg.App.Port,
	})

	go func() {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown error", err)
		}
	}()

	logg.Info(runCtx, "starting api server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(runCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "api server shutting down gracefully")
}
