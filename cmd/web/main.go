package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"scorekeeper/internal/config"
	"scorekeeper/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal(err.Error())
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}
