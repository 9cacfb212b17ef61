package analytics

import (
	"sort"

	"scorekeeper/internal/event"
	"scorekeeper/internal/game"
)

// Standings tabulates finished games with both teams set. Teams are ordered
// by wins, then point difference, then points scored, then id.
func Standings(games []game.Game, eventsByGame map[int64][]event.Event) []Standing {
	table := make(map[int64]*Standing)
	row := func(id int64) *Standing {
		s, ok := table[id]
		if !ok {
			s = &Standing{TeamID: id}
			table[id] = s
		}
		return s
	}

	for _, g := range games {
		if g.TeamAID == nil || g.TeamBID == nil {
			continue
		}
		events := eventsByGame[g.ID]
		if game.PhaseOf(events) != game.Finished {
			continue
		}
		a, b := row(*g.TeamAID), row(*g.TeamBID)
		pa, pb := game.Points(events, a.TeamID), game.Points(events, b.TeamID)
		record(a, pa, pb)
		record(b, pb, pa)
	}

	out := make([]Standing, 0, len(table))
	for _, s := range table {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		x, y := out[i], out[j]
		if x.Won != y.Won {
			return x.Won > y.Won
		}
		if x.Difference() != y.Difference() {
			return x.Difference() > y.Difference()
		}
		if x.PointsFor != y.PointsFor {
			return x.PointsFor > y.PointsFor
		}
		return x.TeamID < y.TeamID
	})
	return out
}

func record(s *Standing, scored, conceded int) {
	s.Played++
	s.PointsFor += scored
	s.PointsAgainst += conceded
	switch {
	case scored > conceded:
		s.Won++
	case scored < conceded:
		s.Lost++
	default:
		s.Drawn++
	}
}
