package analytics

import (
	"testing"

	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
)

func ptr(v int64) *int64 { return &v }

func base(team int64, at int) event.Base {
	b := event.Base{Time: at}
	if team != 0 {
		b.TeamID = ptr(team)
	}
	return b
}

// reverse turns a chronological list into a newest first log.
func reverse(events ...event.Event) []event.Event {
	out := make([]event.Event, len(events))
	for i, e := range events {
		out[len(events)-1-i] = e
	}
	return out
}

func finished(ta int64, a int, tb int64, b int) []event.Event {
	return reverse(
		event.Timing{Base: base(ta, 0), Kind: event.GameStart},
		event.Points{Base: base(ta, 10), Points: a},
		event.Switch{Base: base(tb, 20), Kind: event.SwitchDeaths},
		event.Points{Base: base(tb, 30), Points: b},
		event.Timing{Base: base(0, 40), Kind: event.GameEnd},
	)
}

func TestSummarize(t *testing.T) {
	g := game.Game{ID: 4, TeamAID: ptr(1), TeamBID: ptr(2)}
	events := reverse(
		event.Timing{Base: base(1, 0), Kind: event.GameStart},
		event.Fault{Base: base(1, 5), Kind: event.FaultClick},
		event.Fault{Base: base(1, 6), Kind: event.FaultClick},
		event.Fault{Base: base(1, 7), Kind: event.FaultRoll},
		event.Death{Base: base(1, 8)},
		event.LiftSuccess{Base: base(1, 9)},
		event.Points{Base: base(1, 10), Points: 3},
		event.Timing{Base: base(0, 11), Kind: event.PauseStart},
		event.Timing{Base: base(0, 15), Kind: event.PauseEnd},
		event.Switch{Base: base(2, 20), Kind: event.SwitchTime},
		event.Points{Base: base(2, 25), Points: 1},
		event.Switch{Base: base(1, 30), Kind: event.SwitchForce},
	)

	s := Summarize(g, events)

	if s.GameID != 4 || s.Phase != game.Started || s.Events != 12 || s.Pauses != 1 {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Teams) != 2 || s.Teams[0].TeamID != 1 {
		t.Fatalf("teams = %+v", s.Teams)
	}
	a, _ := s.Team(1)
	if a.Points != 3 || a.Deaths != 1 || a.Lifts != 1 || a.Turns != 2 {
		t.Errorf("team 1 = %+v", a)
	}
	if a.Faults["fault_click"] != 2 || a.Faults["fault_roll"] != 1 || a.FaultTotal != 3 {
		t.Errorf("team 1 faults = %v", a.Faults)
	}
	b, _ := s.Team(2)
	if b.Points != 1 || b.Turns != 1 || b.FaultTotal != 0 {
		t.Errorf("team 2 = %+v", b)
	}
	if s.Switches["switch_time"] != 1 || s.Switches["switch_force"] != 1 {
		t.Errorf("switches = %v", s.Switches)
	}
}

func TestSummarize_EmptyLog(t *testing.T) {
	s := Summarize(game.Game{ID: 1, TeamAID: ptr(1)}, nil)
	if s.Phase != game.NotStarted || len(s.Teams) != 1 || s.Teams[0].Points != 0 {
		t.Errorf("summary = %+v", s)
	}
	if _, ok := s.Team(2); ok {
		t.Error("Team(2) should be absent")
	}
}

func TestStandings(t *testing.T) {
	games := []game.Game{
		{ID: 1, TeamAID: ptr(1), TeamBID: ptr(2)},
		{ID: 2, TeamAID: ptr(2), TeamBID: ptr(3)},
		{ID: 3, TeamAID: ptr(1), TeamBID: ptr(3)},
		{ID: 4, TeamAID: ptr(1), TeamBID: ptr(2)}, // still running
		{ID: 5, TeamAID: ptr(1)},                  // no opponent
	}
	events := map[int64][]event.Event{
		1: finished(1, 5, 2, 2),
		2: finished(2, 4, 3, 4),
		3: finished(1, 1, 3, 3),
		4: reverse(event.Timing{Base: base(1, 0), Kind: event.GameStart}, event.Points{Base: base(1, 1), Points: 9}),
	}

	got := Standings(games, events)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(got), got)
	}

	want := []Standing{
		{TeamID: 3, Played: 2, Won: 1, Drawn: 1, PointsFor: 7, PointsAgainst: 5},
		{TeamID: 1, Played: 2, Won: 1, Lost: 1, PointsFor: 6, PointsAgainst: 5},
		{TeamID: 2, Played: 2, Drawn: 1, Lost: 1, PointsFor: 6, PointsAgainst: 9},
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("standings[%d] = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestStandings_NoFinishedGames(t *testing.T) {
	got := Standings([]game.Game{{ID: 1, TeamAID: ptr(1), TeamBID: ptr(2)}}, nil)
	if len(got) != 0 {
		t.Errorf("standings = %+v, want empty", got)
	}
}
