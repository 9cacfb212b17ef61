package server

import (
	"context"
	"time"

	"scorekeeper/internal/bus"
)

// RunClock publishes the state of every live room whose game is running once
// per tick, so clients see the game and turn clocks advance between events.
// It returns when ctx is done.
func (s *Server) RunClock(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tickRooms()
		}
	}
}

func (s *Server) tickRooms() int {
	now := s.now()
	n := 0
	for _, room := range s.Rooms.List() {
		if !room.ClockRunning() {
			continue
		}
		if room.Publish(bus.Tick, nil, 0, now) {
			n++
		}
	}
	return n
}
