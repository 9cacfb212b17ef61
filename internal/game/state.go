package game

import (
	"time"

	"scorekeeper/internal/event"
)

// State is everything derived from a log at one instant.
type State struct {
	Phase             Phase  `json:"phase"`
	InTeamID          *int64 `json:"inTeamId"`
	OutTeamID         *int64 `json:"outTeamId"`
	TeamAPoints       int    `json:"teamAPoints"`
	TeamBPoints       int    `json:"teamBPoints"`
	FaultCount        int    `json:"faultCount"`
	DeathCount        int    `json:"deathCount"`
	LiftSucceeded     bool   `json:"liftSucceeded"`
	GameTime          int    `json:"gameTime"`
	TurnTime          int    `json:"turnTime"`
	LastEventTime     int    `json:"lastEventTime"`
	LastTurnEventTime int    `json:"lastTurnEventTime"`
}

// Derive computes the full state of g from its newest first log. The only
// error is an in team that does not belong to g.
func Derive(g Game, events []event.Event, now time.Time) (State, error) {
	in, err := g.InTeam(events)
	if err != nil {
		return State{}, err
	}
	out, err := g.OutTeam(events)
	if err != nil {
		return State{}, err
	}

	faults, deaths := TurnCounts(events)
	s := State{
		Phase:             PhaseOf(events),
		InTeamID:          in,
		OutTeamID:         out,
		FaultCount:        faults,
		DeathCount:        deaths,
		LiftSucceeded:     LiftSucceeded(events),
		GameTime:          GameTime(events, now),
		TurnTime:          TurnTime(events, now),
		LastEventTime:     LastEventTime(events),
		LastTurnEventTime: LastTurnEventTime(events),
	}
	if g.TeamAID != nil {
		s.TeamAPoints = Points(events, *g.TeamAID)
	}
	if g.TeamBID != nil {
		s.TeamBPoints = Points(events, *g.TeamBID)
	}
	return s, nil
}

// ClockRunning reports whether the game clock is ticking, i.e. whether
// GameTime still grows with now.
func ClockRunning(events []event.Event) bool {
	for _, e := range events {
		if t, ok := e.(event.Timing); ok {
			return t.Running()
		}
	}
	return false
}
