// Package store declares what the service needs from event persistence.
// internal/db implements it on Postgres and internal/memstore in memory.
package store

import (
	"context"
	"errors"

	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrCodeTaken = errors.New("join code already in use")
)

// AppendCheck is called with the game and its newest first log while the
// game is locked against other appends and removals. A non-nil error aborts
// the operation and is returned unchanged.
type AppendCheck func(g game.Game, events []event.Event, next event.Event) error

// RemoveCheck is the removal counterpart of AppendCheck.
type RemoveCheck func(events []event.Event, eventID int64) error

type Store interface {
	CreateGame(ctx context.Context, g game.Game) (game.Game, error)
	GetGame(ctx context.Context, id int64) (game.Game, error)
	GetGameByCode(ctx context.Context, code string) (game.Game, error)
	ListGames(ctx context.Context, tournamentID int64) ([]game.Game, error)

	// ListEvents returns the log newest first. A record with an unknown type
	// code fails the whole call with event.ErrUnknownEventType.
	ListEvents(ctx context.Context, gameID int64) ([]event.Event, error)

	// AppendEvent stores raw after check accepts it, assigning the event id
	// and creation time. Appends and removals for one game are serialized.
	AppendEvent(ctx context.Context, raw event.Raw, check AppendCheck) (event.Event, error)

	// RemoveLatestEvent deletes eventID after check accepts it.
	RemoveLatestEvent(ctx context.Context, gameID, eventID int64, check RemoveCheck) error
}
