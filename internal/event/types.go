package event

import "fmt"

// Type is the numeric type code of an event. Codes are stored and sent over
// the wire verbatim, so a code is never reassigned once in use. Codes are
// grouped by family:
//   - 10+: scoring
//   - 20+: timing
//   - 30+: faults (some of which may be followed by a direct death)
//   - 40+: switches
type Type int

const (
	TypePoints      Type = 11
	TypeDeath       Type = 12
	TypeLiftSuccess Type = 14

	TypeGameStart  Type = 21
	TypeGameEnd    Type = 22
	TypePauseStart Type = 25
	TypePauseEnd   Type = 26

	TypeFaultClick               Type = 31
	TypeFaultBackLift            Type = 32
	TypeFaultRoll                Type = 33
	TypeFaultOut                 Type = 34
	TypeFaultCatch               Type = 35
	TypeFaultWicketDirect        Type = 36
	TypeFaultWicketShin          Type = 37
	TypeFaultHitCatch            Type = 38
	TypeFaultCrossingDefenceLine Type = 39

	TypeSwitchForce  Type = 41
	TypeSwitchTime   Type = 42
	TypeSwitchDeaths Type = 43
)

type Family int

const (
	FamilyScoring Family = iota + 1
	FamilyTiming
	FamilyFault
	FamilySwitch
)

func (f Family) String() string {
	switch f {
	case FamilyScoring:
		return "scoring"
	case FamilyTiming:
		return "timing"
	case FamilyFault:
		return "fault"
	case FamilySwitch:
		return "switch"
	}
	return fmt.Sprintf("family(%d)", int(f))
}

type typeInfo struct {
	typ    Type
	family Family
	name   string
}

// typeTable is the single source of truth for known codes, in ascending order.
var typeTable = []typeInfo{
	{TypePoints, FamilyScoring, "points"},
	{TypeDeath, FamilyScoring, "death"},
	{TypeLiftSuccess, FamilyScoring, "lift_success"},
	{TypeGameStart, FamilyTiming, "game_start"},
	{TypeGameEnd, FamilyTiming, "game_end"},
	{TypePauseStart, FamilyTiming, "pause_start"},
	{TypePauseEnd, FamilyTiming, "pause_end"},
	{TypeFaultClick, FamilyFault, "fault_click"},
	{TypeFaultBackLift, FamilyFault, "fault_back_lift"},
	{TypeFaultRoll, FamilyFault, "fault_roll"},
	{TypeFaultOut, FamilyFault, "fault_out"},
	{TypeFaultCatch, FamilyFault, "fault_catch"},
	{TypeFaultWicketDirect, FamilyFault, "fault_wicket_direct"},
	{TypeFaultWicketShin, FamilyFault, "fault_wicket_shin"},
	{TypeFaultHitCatch, FamilyFault, "fault_hit_catch"},
	{TypeFaultCrossingDefenceLine, FamilyFault, "fault_crossing_defence_line"},
	{TypeSwitchForce, FamilySwitch, "switch_force"},
	{TypeSwitchTime, FamilySwitch, "switch_time"},
	{TypeSwitchDeaths, FamilySwitch, "switch_deaths"},
}

var byType = func() map[Type]typeInfo {
	m := make(map[Type]typeInfo, len(typeTable))
	for _, info := range typeTable {
		if _, dup := m[info.typ]; dup {
			panic(fmt.Sprintf("event: duplicate type code %d", info.typ))
		}
		m[info.typ] = info
	}
	return m
}()

// ParseType returns the Type for a raw code, or an *UnknownTypeError.
func ParseType(code int) (Type, error) {
	t := Type(code)
	if !t.Known() {
		return 0, &UnknownTypeError{TypeID: code}
	}
	return t, nil
}

// Types returns every known type code in ascending order.
func Types() []Type {
	out := make([]Type, len(typeTable))
	for i, info := range typeTable {
		out[i] = info.typ
	}
	return out
}

func (t Type) Known() bool {
	_, ok := byType[t]
	return ok
}

// Family returns the family of t, or 0 for an unknown code.
func (t Type) Family() Family {
	return byType[t].family
}

func (t Type) String() string {
	if info, ok := byType[t]; ok {
		return info.name
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}
