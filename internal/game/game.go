// Package game derives the live state of a game from its event log.
//
// Every function takes the log newest first (index 0 is the most recent
// event) and recomputes from scratch. Nothing is cached and nothing is
// mutated, so any snapshot can be derived from any goroutine.
package game

import (
	"errors"
	"fmt"
	"time"
)

// Phase is derived, never stored. Over a game's lifetime the phases visited
// always follow NOT_STARTED → STARTED → (PAUSED → STARTED)* → FINISHED.
type Phase string

const (
	NotStarted = Phase("NOT_STARTED")
	Started    = Phase("STARTED")
	Paused     = Phase("PAUSED")
	Finished   = Phase("FINISHED")
)

// Game is the record a log belongs to. Either team may be unset while the
// game is waiting for opponents.
type Game struct {
	ID           int64     `json:"gameId"`
	TournamentID int64     `json:"tournamentId"`
	TeamAID      *int64    `json:"teamAId"`
	TeamBID      *int64    `json:"teamBId"`
	Description  string    `json:"description"`
	JoinCode     string    `json:"joinCode"`
	Created      time.Time `json:"created"`
}

// HasTeam reports whether id is one of the game's configured teams.
func (g Game) HasTeam(id int64) bool {
	return (g.TeamAID != nil && *g.TeamAID == id) || (g.TeamBID != nil && *g.TeamBID == id)
}

// ErrUnknownTeamInGame means the log names an in team that is neither of the
// game's teams. It points at a corrupt log or a referee on the wrong game.
var ErrUnknownTeamInGame = errors.New("unknown team in game")

type UnknownTeamError struct {
	GameID int64
	TeamID int64
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("game %d: in team %d is not a team of the game", e.GameID, e.TeamID)
}

func (e *UnknownTeamError) Unwrap() error {
	return ErrUnknownTeamInGame
}
