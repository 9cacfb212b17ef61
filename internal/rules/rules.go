// Package rules decides whether an event may be appended to or removed from
// a game's log, given the state derived from the current log.
package rules

import (
	"errors"

	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
)

var (
	ErrNotStarted     = errors.New("game has not started")
	ErrFinished       = errors.New("game is finished")
	ErrPaused         = errors.New("game is paused")
	ErrAlreadyStarted = errors.New("game is already started")
	ErrNotPaused      = errors.New("game is not paused")
	ErrTeamRequired   = errors.New("event requires a team")
	ErrForeignTeam    = errors.New("team does not play in this game")
	ErrInvalidPoints  = errors.New("points must be positive")
	ErrTimeBackwards  = errors.New("event time is before the latest event")
	ErrNotLatest      = errors.New("only the most recent event can be removed")
	ErrEmptyLog       = errors.New("game has no events")
)

// CheckAppend validates next against the game's newest first log.
func CheckAppend(g game.Game, events []event.Event, next event.Event) error {
	phase := game.PhaseOf(events)
	t, isTiming := next.(event.Timing)

	switch phase {
	case game.NotStarted:
		if !isTiming || t.Kind != event.GameStart {
			return ErrNotStarted
		}
	case game.Finished:
		return ErrFinished
	case game.Paused:
		if !isTiming || t.Kind != event.PauseEnd {
			return ErrPaused
		}
	case game.Started:
		if isTiming && t.Kind == event.GameStart {
			return ErrAlreadyStarted
		}
		if isTiming && t.Kind == event.PauseEnd {
			return ErrNotPaused
		}
	}

	if needsTeam(next) {
		id, ok := event.Team(next)
		if !ok {
			return ErrTeamRequired
		}
		if !g.HasTeam(id) {
			return ErrForeignTeam
		}
	}

	if p, ok := next.(event.Points); ok && p.Points <= 0 {
		return ErrInvalidPoints
	}

	if len(events) > 0 && next.Info().Time < events[0].Info().Time {
		return ErrTimeBackwards
	}
	return nil
}

// CheckRemove allows removing eventID only when it is the most recent event.
func CheckRemove(events []event.Event, eventID int64) error {
	if len(events) == 0 {
		return ErrEmptyLog
	}
	if events[0].Info().ID != eventID {
		return ErrNotLatest
	}
	return nil
}

// IsViolation reports whether err is one of the rule errors above.
func IsViolation(err error) bool {
	for _, target := range []error{
		ErrNotStarted, ErrFinished, ErrPaused, ErrAlreadyStarted, ErrNotPaused,
		ErrTeamRequired, ErrForeignTeam, ErrInvalidPoints, ErrTimeBackwards,
		ErrNotLatest, ErrEmptyLog,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func needsTeam(e event.Event) bool {
	switch e := e.(type) {
	case event.Points, event.Switch:
		return true
	case event.Timing:
		return e.Kind == event.GameStart
	}
	return false
}
