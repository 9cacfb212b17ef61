package rooms

import (
	"sync"
	"time"

	"scorekeeper/internal/broadcast"
	"scorekeeper/internal/bus"
	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
	"scorekeeper/internal/wshub"
)

// Room is the live side of one game: a cached copy of its log and the
// channels its spectators listen on. The store stays the source of truth;
// the cache is reloaded after every successful write.
type Room struct {
	GameID      int64
	Bus         *bus.Bus
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	CreatedAt   time.Time

	syncMu     sync.Mutex // held across reload and replace
	mu         sync.Mutex
	game       game.Game
	events     []event.Event
	lastActive time.Time
	closed     bool
}

func newRoom(g game.Game, events []event.Event, now time.Time) *Room {
	b := bus.NewBus()
	r := &Room{
		GameID:      g.ID,
		Bus:         b,
		Broadcaster: broadcast.NewBroadcaster(b),
		Hub:         wshub.NewHub(),
		CreatedAt:   now,
		game:        g,
		events:      events,
		lastActive:  now,
	}
	r.Broadcaster.Listen(r.Hub.BroadcastState)
	return r
}

// Snapshot returns the cached game and newest first log. The slice must not
// be modified.
func (r *Room) Snapshot() (game.Game, []event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game, r.events
}

// Sync reloads the game and its log with load and caches the result. Calls
// on one room run one at a time, so the last load to finish is also the
// last to be cached and an older read never replaces a newer one.
func (r *Room) Sync(load Loader, now time.Time) error {
	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	g, events, err := load()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.game = g
	r.events = events
	r.lastActive = now
	r.mu.Unlock()
	return nil
}

func (r *Room) State(now time.Time) (game.State, error) {
	g, events := r.Snapshot()
	return game.Derive(g, events, now)
}

// ClockRunning reports whether the cached game's clock is ticking.
func (r *Room) ClockRunning() bool {
	_, events := r.Snapshot()
	return game.ClockRunning(events)
}

// Publish derives the current state and queues it on the room's bus. It
// reports false when the state could not be derived or the bus was full.
func (r *Room) Publish(reason bus.Reason, e event.Event, eventID int64, now time.Time) bool {
	st, err := r.State(now)
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	return r.Bus.Publish(bus.StateChange{
		GameID:  r.GameID,
		Reason:  reason,
		Event:   e,
		EventID: eventID,
		State:   st,
	})
}

// Touch marks the room as in use.
func (r *Room) Touch(now time.Time) {
	r.mu.Lock()
	r.lastActive = now
	r.mu.Unlock()
}

func (r *Room) idle(now time.Time, ttl time.Duration) bool {
	r.mu.Lock()
	last := r.lastActive
	r.mu.Unlock()
	return now.Sub(last) > ttl && r.Broadcaster.Count() == 0 && r.Hub.Count() == 0
}

func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.Bus.Changes)
	}
}
