// Package bus carries state change notifications from the code that mutates a
// game to the fan-out goroutines that push them to clients.
package bus

import (
	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
)

type Reason string

const (
	Appended = Reason("appended")
	Removed  = Reason("removed")
	Tick     = Reason("tick")
)

// StateChange is the state of a game right after Reason happened. Event is
// the appended event, or nil for removals and clock ticks.
type StateChange struct {
	GameID  int64
	Reason  Reason
	Event   event.Event
	EventID int64
	State   game.State
}

type Bus struct {
	Changes chan StateChange
}

func NewBus() *Bus {
	return &Bus{
		Changes: make(chan StateChange, 10),
	}
}

// Publish queues c without blocking. It reports false when the buffer is
// full and c was dropped.
func (b *Bus) Publish(c StateChange) bool {
	select {
	case b.Changes <- c:
		return true
	default:
		return false
	}
}
