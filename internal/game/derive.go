package game

import (
	"fmt"
	"time"

	"scorekeeper/internal/event"
)

func unexpected(e event.Event) string {
	return fmt.Sprintf("game: unexpected event variant %T", e)
}

// PhaseOf derives the phase from the most recent event alone. A timing
// event of unknown kind gives the default phase.
func PhaseOf(events []event.Event) Phase {
	if len(events) == 0 {
		return NotStarted
	}
	switch e := events[0].(type) {
	case event.Points, event.Death, event.LiftSuccess, event.Fault, event.Switch:
		return Started
	case event.Timing:
		switch e.Kind {
		case event.GameStart, event.PauseEnd:
			return Started
		case event.GameEnd:
			return Finished
		case event.PauseStart:
			return Paused
		}
	}
	return NotStarted
}

// Points sums the points awarded to teamID over the whole log.
func Points(events []event.Event, teamID int64) int {
	total := 0
	for _, e := range events {
		p, ok := e.(event.Points)
		if !ok {
			continue
		}
		if id, ok := event.Team(p); ok && id == teamID {
			total += p.Points
		}
	}
	return total
}

// InTeamID returns the team currently in, taken from the most recent Switch
// or GameStart that names a team. Reaching a GameEnd first, or running out of
// events, means there is no in team.
func InTeamID(events []event.Event) (int64, bool) {
	for _, e := range events {
		switch e := e.(type) {
		case event.Switch:
			if id, ok := event.Team(e); ok {
				return id, true
			}
		case event.Timing:
			switch e.Kind {
			case event.GameStart:
				if id, ok := event.Team(e); ok {
					return id, true
				}
			case event.GameEnd:
				return 0, false
			}
		case event.Points, event.Death, event.LiftSuccess, event.Fault:
		default:
			panic(unexpected(e))
		}
	}
	return 0, false
}

// InTeam resolves the in team against the game's teams. A nil result with a
// nil error means the game has no in team right now.
func (g Game) InTeam(events []event.Event) (*int64, error) {
	id, ok := InTeamID(events)
	if !ok {
		return nil, nil
	}
	switch {
	case g.TeamAID != nil && *g.TeamAID == id:
		return g.TeamAID, nil
	case g.TeamBID != nil && *g.TeamBID == id:
		return g.TeamBID, nil
	}
	return nil, &UnknownTeamError{GameID: g.ID, TeamID: id}
}

// OutTeam is the configured team that is not in. It is nil whenever InTeam is.
func (g Game) OutTeam(events []event.Event) (*int64, error) {
	id, ok := InTeamID(events)
	if !ok {
		return nil, nil
	}
	switch {
	case g.TeamAID != nil && *g.TeamAID == id:
		return g.TeamBID, nil
	case g.TeamBID != nil && *g.TeamBID == id:
		return g.TeamAID, nil
	}
	return nil, &UnknownTeamError{GameID: g.ID, TeamID: id}
}

// FaultCount counts the faults of the current turn. Deaths, points, switches
// and the start or end of the game close the turn; pauses and successful
// lifts are looked through.
func FaultCount(events []event.Event) int {
	count := 0
	for _, e := range events {
		switch e := e.(type) {
		case event.Fault:
			count++
		case event.Death, event.Points, event.Switch:
			return count
		case event.Timing:
			if !e.IsPause() {
				return count
			}
		case event.LiftSuccess:
		default:
			panic(unexpected(e))
		}
	}
	return count
}

// DeathCount counts the deaths of the current turn. Unlike FaultCount,
// faults do not close the window: faults and a later death belong to the
// same defence.
func DeathCount(events []event.Event) int {
	count := 0
	for _, e := range events {
		switch e := e.(type) {
		case event.Death:
			count++
		case event.Points, event.Switch:
			return count
		case event.Timing:
			if !e.IsPause() {
				return count
			}
		case event.Fault, event.LiftSuccess:
		default:
			panic(unexpected(e))
		}
	}
	return count
}

// TurnCounts returns FaultCount and DeathCount from a single scan.
func TurnCounts(events []event.Event) (faults, deaths int) {
	faultsDone := false
	for _, e := range events {
		switch e := e.(type) {
		case event.Fault:
			if !faultsDone {
				faults++
			}
		case event.Death:
			faultsDone = true
			deaths++
		case event.Points, event.Switch:
			return faults, deaths
		case event.Timing:
			if !e.IsPause() {
				return faults, deaths
			}
		case event.LiftSuccess:
		default:
			panic(unexpected(e))
		}
	}
	return faults, deaths
}

// LiftSucceeded reports whether the in team has lifted without faults or
// deaths and the defence has not finished yet. Faults and pauses give no
// verdict on their own, since rules may allow a fault after a good lift.
func LiftSucceeded(events []event.Event) bool {
	for _, e := range events {
		switch e := e.(type) {
		case event.LiftSuccess:
			return true
		case event.Death, event.Points, event.Switch:
			return false
		case event.Timing:
			if !e.IsPause() {
				return false
			}
		case event.Fault:
		default:
			panic(unexpected(e))
		}
	}
	return false
}

// GameTime is the number of seconds played, pauses excluded. While the clock
// runs, the wall clock time since the last GameStart or PauseEnd was stored
// is added to that event's game time.
func GameTime(events []event.Event, now time.Time) int {
	for _, e := range events {
		t, ok := e.(event.Timing)
		if !ok {
			continue
		}
		if t.Running() {
			return t.Time + secondsSince(t.Created, now)
		}
		return t.Time
	}
	return 0
}

// TurnTime is the number of seconds since the last switch, or since the
// start of the game if there has been none.
func TurnTime(events []event.Event, now time.Time) int {
	return GameTime(events, now) - switchTime(events)
}

// LastEventTime is the game time of the most recent event that is not a
// pause, or 0 for an empty log.
func LastEventTime(events []event.Event) int {
	for _, e := range events {
		if t, ok := e.(event.Timing); ok && t.IsPause() {
			continue
		}
		return e.Info().Time
	}
	return 0
}

// LastTurnEventTime is LastEventTime relative to the last switch.
func LastTurnEventTime(events []event.Event) int {
	for _, e := range events {
		if t, ok := e.(event.Timing); ok && t.IsPause() {
			continue
		}
		return e.Info().Time - switchTime(events)
	}
	return 0
}

func switchTime(events []event.Event) int {
	for _, e := range events {
		if s, ok := e.(event.Switch); ok {
			return s.Time
		}
	}
	return 0
}

// secondsSince truncates to whole seconds.
func secondsSince(created, now time.Time) int {
	return int(now.Sub(created) / time.Second)
}
