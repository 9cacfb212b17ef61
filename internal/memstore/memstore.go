// Package memstore keeps games and their event logs in process memory. It is
// used when no database is configured and by the server tests.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
	"scorekeeper/internal/store"
)

type Store struct {
	mu      sync.Mutex
	games   map[int64]game.Game
	codes   map[string]int64
	logs    map[int64][]event.Raw // oldest first
	nextGID int64
	nextEID int64
	now     func() time.Time
}

func New() *Store {
	return &Store{
		games: make(map[int64]game.Game),
		codes: make(map[string]int64),
		logs:  make(map[int64][]event.Raw),
		now:   time.Now,
	}
}

func (s *Store) CreateGame(_ context.Context, g game.Game) (game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[g.JoinCode]; taken && g.JoinCode != "" {
		return game.Game{}, fmt.Errorf("creating game: %w", store.ErrCodeTaken)
	}
	s.nextGID++
	g.ID = s.nextGID
	g.Created = s.now().UTC()
	s.games[g.ID] = g
	if g.JoinCode != "" {
		s.codes[g.JoinCode] = g.ID
	}
	return g, nil
}

func (s *Store) GetGame(_ context.Context, id int64) (game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return game.Game{}, fmt.Errorf("getting game %d: %w", id, store.ErrNotFound)
	}
	return g, nil
}

func (s *Store) GetGameByCode(_ context.Context, code string) (game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.codes[code]
	if !ok {
		return game.Game{}, fmt.Errorf("getting game %q: %w", code, store.ErrNotFound)
	}
	return s.games[id], nil
}

func (s *Store) ListGames(_ context.Context, tournamentID int64) ([]game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var games []game.Game
	for id := int64(1); id <= s.nextGID; id++ {
		g, ok := s.games[id]
		if !ok {
			continue
		}
		if tournamentID == 0 || g.TournamentID == tournamentID {
			games = append(games, g)
		}
	}
	return games, nil
}

func (s *Store) ListEvents(_ context.Context, gameID int64) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(gameID)
}

func (s *Store) listLocked(gameID int64) ([]event.Event, error) {
	stored := s.logs[gameID]
	raws := make([]event.Raw, len(stored))
	for i, r := range stored {
		raws[len(stored)-1-i] = r
	}
	events, err := event.DecodeAll(raws)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", gameID, err)
	}
	return events, nil
}

// AppendEvent holds the store lock across read, check and write, which
// serializes every append and removal, not only those of one game.
func (s *Store) AppendEvent(_ context.Context, raw event.Raw, check store.AppendCheck) (event.Event, error) {
	next, err := event.Decode(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[raw.GameID]
	if !ok {
		return nil, fmt.Errorf("getting game %d: %w", raw.GameID, store.ErrNotFound)
	}
	events, err := s.listLocked(raw.GameID)
	if err != nil {
		return nil, err
	}
	if check != nil {
		if err := check(g, events, next); err != nil {
			return nil, err
		}
	}

	s.nextEID++
	stored := raw
	stored.EventID = s.nextEID
	stored.Created = s.now().UTC()
	if p, ok := next.(event.Points); ok {
		points := p.Points
		stored.Points = &points
	} else {
		stored.Points = nil
	}
	if raw.TeamID != nil {
		team := *raw.TeamID
		stored.TeamID = &team
	}
	s.logs[raw.GameID] = append(s.logs[raw.GameID], stored)
	return event.Decode(stored)
}

func (s *Store) RemoveLatestEvent(_ context.Context, gameID, eventID int64, check store.RemoveCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("getting game %d: %w", gameID, store.ErrNotFound)
	}
	events, err := s.listLocked(gameID)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(events, eventID); err != nil {
			return err
		}
	}
	log := s.logs[gameID]
	for i, r := range log {
		if r.EventID == eventID {
			s.logs[gameID] = append(log[:i:i], log[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("removing event %d: %w", eventID, store.ErrNotFound)
}

// Put stores raw as is, bypassing decoding and checks, so callers can seed
// logs that the append path would reject.
func (s *Store) Put(raw event.Raw) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw.EventID == 0 {
		s.nextEID++
		raw.EventID = s.nextEID
	} else if raw.EventID > s.nextEID {
		s.nextEID = raw.EventID
	}
	if raw.Created.IsZero() {
		raw.Created = s.now().UTC()
	}
	s.logs[raw.GameID] = append(s.logs[raw.GameID], raw)
}
