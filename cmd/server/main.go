package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/api"
	"github.com/david/accel-hub/internal/config"
	"github.com/david/accel-hub/internal/db"
	"github.com/david/accel-hub/internal/notify"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	var mailer notify.Mailer
	if cfg.Email.Enabled && cfg.Email.Sender != "" {
		m, err := notify.NewSESMailer(ctx, cfg.Email.Region, cfg.Email.Sender)
		if err != nil {
			logger.Warn("SES mailer unavailable, notifications will be stored only", zap.Error(err))
		} else {
			mailer = m
		}
	}

	srv := api.NewServer(pool, &cfg, mailer, logger)
	logger.Info("server starting", zap.String("port", port))
	if err := srv.Start(port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
