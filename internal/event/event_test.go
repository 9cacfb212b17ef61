package event

import (
	"errors"
	"testing"
	"time"
)

func TestDecode_RoundTripsEveryType(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	team := int64(7)
	points := 3

	for _, typ := range Types() {
		raw := Raw{
			EventID:   100,
			GameID:    5,
			TeamID:    &team,
			TypeID:    int(typ),
			Time:      42,
			RefereeID: 9,
			Created:   created,
		}
		if typ == TypePoints {
			raw.Points = &points
		}

		e, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode(%d) error: %v", typ, err)
		}
		if got := TypeID(e); got != int(typ) {
			t.Errorf("TypeID(Decode(%d)) = %d", typ, got)
		}
		back := Encode(e)
		if back.TypeID != raw.TypeID || back.EventID != raw.EventID || back.Time != raw.Time {
			t.Errorf("Encode(Decode(%d)) = %+v, want %+v", typ, back, raw)
		}
		if typ == TypePoints {
			if back.Points == nil || *back.Points != 3 {
				t.Errorf("points lost in round trip: %+v", back.Points)
			}
		} else if back.Points != nil {
			t.Errorf("type %s should not carry points, got %d", typ, *back.Points)
		}
	}
}

func TestDecode_Variants(t *testing.T) {
	tests := []struct {
		code int
		want Event
	}{
		{11, Points{}},
		{12, Death{}},
		{14, LiftSuccess{}},
		{21, Timing{Kind: GameStart}},
		{22, Timing{Kind: GameEnd}},
		{25, Timing{Kind: PauseStart}},
		{26, Timing{Kind: PauseEnd}},
		{31, Fault{Kind: FaultClick}},
		{32, Fault{Kind: FaultBackLift}},
		{33, Fault{Kind: FaultRoll}},
		{34, Fault{Kind: FaultOut}},
		{35, Fault{Kind: FaultCatch}},
		{36, Fault{Kind: FaultWicketDirect}},
		{37, Fault{Kind: FaultWicketShin}},
		{38, Fault{Kind: FaultHitCatch}},
		{39, Fault{Kind: FaultCrossingDefenceLine}},
		{41, Switch{Kind: SwitchForce}},
		{42, Switch{Kind: SwitchTime}},
		{43, Switch{Kind: SwitchDeaths}},
	}

	if len(tests) != len(Types()) {
		t.Fatalf("test table covers %d codes, registry has %d", len(tests), len(Types()))
	}

	for _, tt := range tests {
		got, err := Decode(Raw{TypeID: tt.code})
		if err != nil {
			t.Fatalf("Decode(%d) error: %v", tt.code, err)
		}
		if got != tt.want {
			t.Errorf("Decode(%d) = %#v, want %#v", tt.code, got, tt.want)
		}
	}
}

func TestDecode_UnknownType(t *testing.T) {
	for _, code := range []int{0, 13, 23, 40, 44, 999, -1} {
		_, err := Decode(Raw{EventID: 77, TypeID: code})
		if !errors.Is(err, ErrUnknownEventType) {
			t.Fatalf("Decode(%d) error = %v, want ErrUnknownEventType", code, err)
		}
		var typeErr *UnknownTypeError
		if !errors.As(err, &typeErr) {
			t.Fatalf("Decode(%d) error should be *UnknownTypeError", code)
		}
		if typeErr.TypeID != code || typeErr.EventID != 77 {
			t.Errorf("UnknownTypeError = %+v", typeErr)
		}
	}
}

func TestDecode_PointsWithoutPayload(t *testing.T) {
	e, err := Decode(Raw{TypeID: int(TypePoints)})
	if err != nil {
		t.Fatal(err)
	}
	if p := e.(Points); p.Points != 0 {
		t.Errorf("Points = %d, want 0", p.Points)
	}
}

func TestDecode_IgnoresPointsOnOtherTypes(t *testing.T) {
	points := 5
	e, err := Decode(Raw{TypeID: int(TypeDeath), Points: &points})
	if err != nil {
		t.Fatal(err)
	}
	if Encode(e).Points != nil {
		t.Error("death should not carry points")
	}
}

func TestDecodeAll_StopsOnUnknown(t *testing.T) {
	_, err := DecodeAll([]Raw{{TypeID: 21}, {TypeID: 999}, {TypeID: 11}})
	if !errors.Is(err, ErrUnknownEventType) {
		t.Fatalf("error = %v, want ErrUnknownEventType", err)
	}

	events, err := DecodeAll(nil)
	if err != nil || len(events) != 0 {
		t.Fatalf("DecodeAll(nil) = %v, %v", events, err)
	}
}

func TestTypes_AscendingAndGrouped(t *testing.T) {
	types := Types()
	for i := 1; i < len(types); i++ {
		if types[i] <= types[i-1] {
			t.Fatalf("Types() not ascending at %d: %d after %d", i, types[i], types[i-1])
		}
	}
	for _, typ := range types {
		want := map[int]Family{1: FamilyScoring, 2: FamilyTiming, 3: FamilyFault, 4: FamilySwitch}[int(typ)/10]
		if typ.Family() != want {
			t.Errorf("%s family = %s, want %s", typ, typ.Family(), want)
		}
	}
}

func TestType_String(t *testing.T) {
	if got := TypeFaultCrossingDefenceLine.String(); got != "fault_crossing_defence_line" {
		t.Errorf("String() = %q", got)
	}
	if got := Type(999).String(); got != "unknown(999)" {
		t.Errorf("String() = %q", got)
	}
	if Type(999).Known() || !TypeGameStart.Known() {
		t.Error("Known() mismatch")
	}
}

func TestTeam(t *testing.T) {
	if _, ok := Team(Death{}); ok {
		t.Error("Team() should report no team for nil TeamID")
	}
	id := int64(4)
	got, ok := Team(Death{Base: Base{TeamID: &id}})
	if !ok || got != 4 {
		t.Errorf("Team() = %d, %v", got, ok)
	}
}
