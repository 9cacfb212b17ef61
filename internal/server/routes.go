package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"scorekeeper/internal/bus"
	"scorekeeper/internal/config"
	"scorekeeper/internal/db"
	"scorekeeper/internal/memstore"
	"scorekeeper/internal/mq"
	"scorekeeper/internal/rooms"
	"scorekeeper/internal/store"
)

// Run serves the API until ctx is cancelled. Without DATABASE_URL games are
// kept in memory; without RABBIT_URL nothing is published to a broker.
func Run(ctx context.Context, cfg config.Config) error {
	log := zap.L().Named("server")

	var (
		st     store.Store
		pinger Pinger
	)
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(); err != nil {
			return err
		}
		st, pinger = database, database
	} else {
		log.Warn("DATABASE_URL not set, keeping games in memory")
		st = memstore.New()
	}

	var listeners []func(bus.StateChange)
	if cfg.RabbitURL != "" {
		pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.Exchange)
		if err != nil {
			return err
		}
		defer pub.Close()
		listeners = append(listeners, mq.NewNotifier(pub).Handle)
		log.Info("publishing game changes", zap.String("exchange", cfg.Exchange))
	}

	roomStore := rooms.NewStore(cfg.RoomTTL, listeners...)
	defer roomStore.Close()

	srv := New(st, roomStore)
	srv.DB = pinger
	go srv.RunClock(ctx, cfg.ClockTick)

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", "http://localhost:"+cfg.Port))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
