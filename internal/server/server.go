package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"scorekeeper/internal/bus"
	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
	"scorekeeper/internal/rooms"
	"scorekeeper/internal/rules"
	"scorekeeper/internal/store"
)

// Pinger is the optional database health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Store   store.Store
	Rooms   *rooms.Store
	DB      Pinger // nil if no database configured
	Metrics *Metrics

	log *zap.Logger
	now func() time.Time
}

func New(st store.Store, rs *rooms.Store) *Server {
	return &Server{
		Store:   st,
		Rooms:   rs,
		Metrics: NewMetrics(),
		log:     zap.L().Named("server"),
		now:     time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("GET /games", s.handleListGames)
	mux.HandleFunc("GET /games/{id}", s.handleGetGame)
	mux.HandleFunc("GET /codes/{code}", s.handleGetGameByCode)
	mux.HandleFunc("GET /games/{id}/events", s.handleListEvents)
	mux.HandleFunc("POST /games/{id}/events", s.handleAppendEvent)
	mux.HandleFunc("DELETE /games/{id}/events/{eventId}", s.handleRemoveEvent)
	mux.HandleFunc("GET /games/{id}/state", s.handleState)
	mux.HandleFunc("GET /games/{id}/summary", s.handleSummary)
	mux.HandleFunc("GET /games/{id}/stream", s.handleStream)
	mux.HandleFunc("GET /games/{id}/ws", s.handleWS)
	mux.HandleFunc("GET /tournaments/{id}/standings", s.handleStandings)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.Metrics.Handler())
	return mux
}

func (s *Server) load(ctx context.Context, gameID int64) (game.Game, []event.Event, error) {
	g, err := s.Store.GetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, nil, err
	}
	events, err := s.Store.ListEvents(ctx, gameID)
	if err != nil {
		return game.Game{}, nil, err
	}
	return g, events, nil
}

// room returns the live room of gameID, opening it from the store.
func (s *Server) room(ctx context.Context, gameID int64) (*rooms.Room, error) {
	return s.Rooms.Open(gameID, func() (game.Game, []event.Event, error) {
		return s.load(ctx, gameID)
	})
}

// appendEvent stores raw in gameID's log and pushes the new state to the
// game's live clients. The returned state is nil when the write succeeded
// but the state could not be read back.
func (s *Server) appendEvent(ctx context.Context, gameID int64, raw event.Raw) (event.Event, *game.State, error) {
	raw.GameID = gameID
	if _, err := event.Decode(raw); err != nil {
		return nil, nil, badRequest(err)
	}

	e, err := s.Store.AppendEvent(ctx, raw, s.checkAppend)
	if err != nil {
		s.Metrics.rejected(err)
		return nil, nil, err
	}
	s.Metrics.Appended.WithLabelValues(e.Type().Family().String()).Inc()
	s.log.Info("event appended",
		zap.Int64("game", gameID),
		zap.Int64("event", e.Info().ID),
		zap.Stringer("type", e.Type()))

	return e, s.refresh(ctx, gameID, bus.Appended, e, e.Info().ID), nil
}

// checkAppend refuses to extend a log whose state cannot be derived, then
// applies the game rules.
func (s *Server) checkAppend(g game.Game, events []event.Event, next event.Event) error {
	if _, err := game.Derive(g, events, s.now()); err != nil {
		return err
	}
	return rules.CheckAppend(g, events, next)
}

func (s *Server) removeEvent(ctx context.Context, gameID, eventID int64) (*game.State, error) {
	if err := s.Store.RemoveLatestEvent(ctx, gameID, eventID, rules.CheckRemove); err != nil {
		s.Metrics.rejected(err)
		return nil, err
	}
	s.Metrics.Removed.Inc()
	s.log.Info("event removed", zap.Int64("game", gameID), zap.Int64("event", eventID))

	return s.refresh(ctx, gameID, bus.Removed, nil, eventID), nil
}

// refresh reloads the room cache after a committed write, publishes the
// change and returns the new state. Failures are logged and give a nil
// state; the write itself stands. A room that could not be reloaded is
// closed so its stale cache is not served.
func (s *Server) refresh(ctx context.Context, gameID int64, reason bus.Reason, e event.Event, eventID int64) *game.State {
	now := s.now()
	room, err := s.room(ctx, gameID)
	if err == nil {
		err = room.Sync(func() (game.Game, []event.Event, error) {
			return s.load(ctx, gameID)
		}, now)
		if err != nil {
			s.Rooms.Delete(gameID)
		}
	}
	if err != nil {
		s.log.Error("reloading game after write", zap.Int64("game", gameID), zap.Error(err))
		return nil
	}

	st, err := room.State(now)
	if err != nil {
		s.log.Error("deriving state after write", zap.Int64("game", gameID), zap.Error(err))
		return nil
	}
	if !room.Publish(reason, e, eventID, now) {
		s.log.Warn("state change dropped", zap.Int64("game", gameID), zap.String("reason", string(reason)))
	}
	return &st
}
