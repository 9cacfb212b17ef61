// Package event defines the closed set of events recorded during a game and
// the mapping between events and their durable numeric type codes.
//
// Most events map 1:1 to something that happens on the pitch. A few real
// occurrences take two events: a fault that causes a direct death is stored
// as a Fault followed by a Death, since whether a fault is fatal is a rule
// set decision and not a property of the fault.
package event

import "time"

// Event is one immutable entry in a game's log. The implementations are
// Points, Death, LiftSuccess, Timing, Fault and Switch.
type Event interface {
	Type() Type
	Info() Base
	isEvent()
}

// Base holds the fields shared by every event. Time is the number of seconds
// into the game as shown on the scoreboard; Created is the wall clock instant
// the event was stored. TeamID is nil for events without a team.
type Base struct {
	ID        int64
	GameID    int64
	TeamID    *int64
	Time      int
	RefereeID int64
	Created   time.Time
}

func (b Base) Info() Base { return b }

// Points awards points to TeamID after a successful lift.
type Points struct {
	Base
	Points int
}

func (Points) Type() Type { return TypePoints }
func (Points) isEvent() {}

// Death is a single death given to TeamID.
type Death struct {
	Base
}

func (Death) Type() Type { return TypeDeath }
func (Death) isEvent() {}

// LiftSuccess is a lift by TeamID without any death or fault.
type LiftSuccess struct {
	Base
}

func (LiftSuccess) Type() Type { return TypeLiftSuccess }
func (LiftSuccess) isEvent() {}

type TimingKind Type

const (
	GameStart  = TimingKind(TypeGameStart)
	GameEnd    = TimingKind(TypeGameEnd)
	PauseStart = TimingKind(TypePauseStart)
	PauseEnd   = TimingKind(TypePauseEnd)
)

// Timing starts, ends, pauses or resumes the game clock. Only GameStart is
// expected to carry a TeamID: the team starting as in team.
type Timing struct {
	Base
	Kind TimingKind
}

func (t Timing) Type() Type { return Type(t.Kind) }
func (Timing) isEvent() {}

// Running reports whether the game clock keeps running after t.
func (t Timing) Running() bool {
	return t.Kind == GameStart || t.Kind == PauseEnd
}

func (t Timing) IsPause() bool {
	return t.Kind == PauseStart || t.Kind == PauseEnd
}

type FaultKind Type

const (
	FaultClick               = FaultKind(TypeFaultClick)
	FaultBackLift            = FaultKind(TypeFaultBackLift)
	FaultRoll                = FaultKind(TypeFaultRoll)
	FaultOut                 = FaultKind(TypeFaultOut)
	FaultCatch               = FaultKind(TypeFaultCatch)
	FaultWicketDirect        = FaultKind(TypeFaultWicketDirect)
	FaultWicketShin          = FaultKind(TypeFaultWicketShin)
	FaultHitCatch            = FaultKind(TypeFaultHitCatch)
	FaultCrossingDefenceLine = FaultKind(TypeFaultCrossingDefenceLine)
)

// Fault is a fault given to TeamID. Some kinds are kept only so old logs
// still decode.
type Fault struct {
	Base
	Kind FaultKind
}

func (f Fault) Type() Type { return Type(f.Kind) }
func (Fault) isEvent() {}

type SwitchKind Type

const (
	SwitchForce  = SwitchKind(TypeSwitchForce)
	SwitchTime   = SwitchKind(TypeSwitchTime)
	SwitchDeaths = SwitchKind(TypeSwitchDeaths)
)

// Switch swaps the in and out team. TeamID is the new in team.
type Switch struct {
	Base
	Kind SwitchKind
}

func (s Switch) Type() Type { return Type(s.Kind) }
func (Switch) isEvent() {}
