package analytics

import "scorekeeper/internal/game"

// TeamSummary counts what happened to one team over a game. Counts are by
// the team named on each event.
type TeamSummary struct {
	TeamID int64          `json:"teamId"`
	Points int            `json:"points"`
	Deaths int            `json:"deaths"`
	Lifts  int            `json:"lifts"`
	Faults map[string]int `json:"faults"`
	Turns  int            `json:"turns"`

	FaultTotal int `json:"faultTotal"`
}

type Summary struct {
	GameID   int64          `json:"gameId"`
	Phase    game.Phase     `json:"phase"`
	Teams    []TeamSummary  `json:"teams"`
	Switches map[string]int `json:"switches"`
	Pauses   int            `json:"pauses"`
	Events   int            `json:"events"`
}

// Team returns the summary of id, if it played.
func (s Summary) Team(id int64) (TeamSummary, bool) {
	for _, t := range s.Teams {
		if t.TeamID == id {
			return t, true
		}
	}
	return TeamSummary{}, false
}

type Standing struct {
	TeamID        int64 `json:"teamId"`
	Played        int   `json:"played"`
	Won           int   `json:"won"`
	Drawn         int   `json:"drawn"`
	Lost          int   `json:"lost"`
	PointsFor     int   `json:"pointsFor"`
	PointsAgainst int   `json:"pointsAgainst"`
}

func (s Standing) Difference() int {
	return s.PointsFor - s.PointsAgainst
}
