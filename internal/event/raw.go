package event

import "time"

// Raw is the flat form of an event as stored and sent over the wire.
// Points is only meaningful for TypePoints.
type Raw struct {
	EventID   int64     `json:"eventId"`
	GameID    int64     `json:"gameId"`
	TeamID    *int64    `json:"teamId"`
	TypeID    int       `json:"typeId"`
	Time      int       `json:"time"`
	RefereeID int64     `json:"refereeId"`
	Created   time.Time `json:"created"`
	Points    *int      `json:"points,omitempty"`
}

// Decode turns a raw record into its event variant. An unknown type code
// yields an *UnknownTypeError wrapping ErrUnknownEventType.
func Decode(raw Raw) (Event, error) {
	t, err := ParseType(raw.TypeID)
	if err != nil {
		return nil, &UnknownTypeError{TypeID: raw.TypeID, EventID: raw.EventID}
	}

	base := Base{
		ID:        raw.EventID,
		GameID:    raw.GameID,
		TeamID:    raw.TeamID,
		Time:      raw.Time,
		RefereeID: raw.RefereeID,
		Created:   raw.Created,
	}

	switch t.Family() {
	case FamilyTiming:
		return Timing{Base: base, Kind: TimingKind(t)}, nil
	case FamilyFault:
		return Fault{Base: base, Kind: FaultKind(t)}, nil
	case FamilySwitch:
		return Switch{Base: base, Kind: SwitchKind(t)}, nil
	}

	switch t {
	case TypePoints:
		points := 0
		if raw.Points != nil {
			points = *raw.Points
		}
		return Points{Base: base, Points: points}, nil
	case TypeDeath:
		return Death{Base: base}, nil
	case TypeLiftSuccess:
		return LiftSuccess{Base: base}, nil
	}
	// Unreachable while typeTable and the variants agree.
	return nil, &UnknownTypeError{TypeID: raw.TypeID, EventID: raw.EventID}
}

// DecodeAll decodes a whole log, keeping its order. It stops at the first
// record that cannot be decoded.
func DecodeAll(raws []Raw) ([]Event, error) {
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		e, err := Decode(raw)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// Encode is the inverse of Decode.
func Encode(e Event) Raw {
	b := e.Info()
	raw := Raw{
		EventID:   b.ID,
		GameID:    b.GameID,
		TeamID:    b.TeamID,
		TypeID:    int(e.Type()),
		Time:      b.Time,
		RefereeID: b.RefereeID,
		Created:   b.Created,
	}
	if p, ok := e.(Points); ok {
		points := p.Points
		raw.Points = &points
	}
	return raw
}

func EncodeAll(events []Event) []Raw {
	raws := make([]Raw, len(events))
	for i, e := range events {
		raws[i] = Encode(e)
	}
	return raws
}

// TypeID returns the numeric code of e.
func TypeID(e Event) int {
	return int(e.Type())
}

// Team returns e's team id and whether it has one.
func Team(e Event) (int64, bool) {
	id := e.Info().TeamID
	if id == nil {
		return 0, false
	}
	return *id, true
}
