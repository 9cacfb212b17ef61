package rooms

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"scorekeeper/internal/bus"
	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
)

// Loader reads a game and its newest first log from the store.
type Loader func() (game.Game, []event.Event, error)

type Store struct {
	mu    sync.Mutex
	rooms map[int64]*Room
	ttl   time.Duration
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
	log   *zap.Logger

	listeners []func(bus.StateChange)
}

// NewStore returns a room store that drops rooms idle for longer than ttl
// and without connected clients. Every room's changes are also passed to
// listeners.
func NewStore(ttl time.Duration, listeners ...func(bus.StateChange)) *Store {
	s := &Store{
		rooms:     make(map[int64]*Room),
		ttl:       ttl,
		now:       time.Now,
		done:      make(chan struct{}),
		log:       zap.L().Named("rooms"),
		listeners: listeners,
	}
	go s.sweepStale()
	return s
}

// Open returns the room of gameID, calling load to create it when it is not
// live yet. load runs without the store lock held; when two callers open the
// same game at once, the room inserted first wins.
func (s *Store) Open(gameID int64, load Loader) (*Room, error) {
	if r := s.Get(gameID); r != nil {
		r.Touch(s.now())
		return r, nil
	}

	g, events, err := load()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[gameID]; ok {
		r.Touch(s.now())
		return r, nil
	}
	r := newRoom(g, events, s.now())
	for _, fn := range s.listeners {
		r.Broadcaster.Listen(fn)
	}
	s.rooms[gameID] = r
	s.log.Debug("room opened", zap.Int64("game", gameID))
	return r, nil
}

func (s *Store) Get(gameID int64) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[gameID]
}

// Delete closes the room of gameID, disconnecting its clients. The next Open
// loads the game again.
func (s *Store) Delete(gameID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[gameID]; ok {
		delete(s.rooms, gameID)
		r.close()
		s.log.Debug("room closed", zap.Int64("game", gameID), zap.Duration("age", s.now().Sub(r.CreatedAt)))
	}
}

func (s *Store) List() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		list = append(list, r)
	}
	return list
}

// Close stops the sweeper and closes every room.
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		for id, r := range s.rooms {
			delete(s.rooms, id)
			r.close()
		}
	})
}

func (s *Store) sweepStale() {
	interval := s.ttl / 12
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	swept := 0
	for id, r := range s.rooms {
		if r.idle(now, s.ttl) {
			delete(s.rooms, id)
			r.close()
			s.log.Debug("room swept", zap.Int64("game", id), zap.Duration("age", now.Sub(r.CreatedAt)))
			swept++
		}
	}
	if swept > 0 {
		s.log.Debug("swept idle rooms", zap.Int("count", swept))
	}
	return swept
}
