package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"scorekeeper/internal/game"
	"scorekeeper/internal/store"
)

const uniqueViolation = pq.ErrorCode("23505")

const gameColumns = `id, tournament_id, team_a_id, team_b_id, description, join_code, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (game.Game, error) {
	var (
		g            game.Game
		teamA, teamB sql.NullInt64
	)
	if err := row.Scan(&g.ID, &g.TournamentID, &teamA, &teamB, &g.Description, &g.JoinCode, &g.Created); err != nil {
		return game.Game{}, err
	}
	if teamA.Valid {
		g.TeamAID = &teamA.Int64
	}
	if teamB.Valid {
		g.TeamBID = &teamB.Int64
	}
	return g, nil
}

func (d *DB) CreateGame(ctx context.Context, g game.Game) (game.Game, error) {
	created, err := scanGame(d.conn.QueryRowContext(ctx, `
		INSERT INTO games (tournament_id, team_a_id, team_b_id, description, join_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+gameColumns,
		g.TournamentID, g.TeamAID, g.TeamBID, g.Description, g.JoinCode))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return game.Game{}, fmt.Errorf("creating game: %w", store.ErrCodeTaken)
		}
		return game.Game{}, fmt.Errorf("creating game: %w", err)
	}
	return created, nil
}

func (d *DB) GetGame(ctx context.Context, id int64) (game.Game, error) {
	g, err := scanGame(d.conn.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return game.Game{}, fmt.Errorf("getting game %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("getting game %d: %w", id, err)
	}
	return g, nil
}

func (d *DB) GetGameByCode(ctx context.Context, code string) (game.Game, error) {
	g, err := scanGame(d.conn.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE join_code = $1`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return game.Game{}, fmt.Errorf("getting game %q: %w", code, store.ErrNotFound)
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("getting game %q: %w", code, err)
	}
	return g, nil
}

// ListGames returns the games of a tournament, or every game when
// tournamentID is 0, oldest first.
func (d *DB) ListGames(ctx context.Context, tournamentID int64) ([]game.Game, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT `+gameColumns+` FROM games
		WHERE $1 = 0 OR tournament_id = $1
		ORDER BY id
	`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var games []game.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
