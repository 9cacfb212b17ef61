package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"scorekeeper/internal/config"
	"scorekeeper/internal/db"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
}
