// Package analytics aggregates logs into per game summaries and tournament
// standings.
package analytics

import (
	"sort"

	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
)

// Summarize walks the newest first log once. Turns are credited to the team
// of each game start and switch, i.e. the team going in.
func Summarize(g game.Game, events []event.Event) Summary {
	s := Summary{
		GameID:   g.ID,
		Phase:    game.PhaseOf(events),
		Switches: make(map[string]int),
		Events:   len(events),
	}

	teams := make(map[int64]*TeamSummary)
	team := func(e event.Event) *TeamSummary {
		id, ok := event.Team(e)
		if !ok {
			return nil
		}
		t, ok := teams[id]
		if !ok {
			t = &TeamSummary{TeamID: id, Faults: make(map[string]int)}
			teams[id] = t
		}
		return t
	}
	for _, id := range []*int64{g.TeamAID, g.TeamBID} {
		if id != nil {
			teams[*id] = &TeamSummary{TeamID: *id, Faults: make(map[string]int)}
		}
	}

	for _, e := range events {
		t := team(e)
		switch e := e.(type) {
		case event.Points:
			if t != nil {
				t.Points += e.Points
			}
		case event.Death:
			if t != nil {
				t.Deaths++
			}
		case event.LiftSuccess:
			if t != nil {
				t.Lifts++
			}
		case event.Fault:
			if t != nil {
				t.Faults[e.Type().String()]++
				t.FaultTotal++
			}
		case event.Switch:
			s.Switches[e.Type().String()]++
			if t != nil {
				t.Turns++
			}
		case event.Timing:
			switch e.Kind {
			case event.GameStart:
				if t != nil {
					t.Turns++
				}
			case event.PauseStart:
				s.Pauses++
			}
		}
	}

	for _, t := range teams {
		s.Teams = append(s.Teams, *t)
	}
	sort.Slice(s.Teams, func(i, j int) bool { return s.Teams[i].TeamID < s.Teams[j].TeamID })
	return s
}
