package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"scorekeeper/internal/event"
	"scorekeeper/internal/store"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (d *DB) ListEvents(ctx context.Context, gameID int64) ([]event.Event, error) {
	return listEvents(ctx, d.conn, gameID)
}

func listEvents(ctx context.Context, q queryer, gameID int64) ([]event.Event, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, game_id, team_id, type_id, game_time, referee_id, points, created_at
		FROM events
		WHERE game_id = $1
		ORDER BY id DESC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var raws []event.Raw
	for rows.Next() {
		var (
			raw    event.Raw
			team   sql.NullInt64
			points sql.NullInt32
		)
		if err := rows.Scan(&raw.EventID, &raw.GameID, &team, &raw.TypeID, &raw.Time, &raw.RefereeID, &points, &raw.Created); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if team.Valid {
			raw.TeamID = &team.Int64
		}
		if points.Valid {
			p := int(points.Int32)
			raw.Points = &p
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	events, err := event.DecodeAll(raws)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", gameID, err)
	}
	return events, nil
}

// withGameLock runs fn in a transaction holding the game's advisory lock, so
// read, check and write for one game never interleave across processes.
func (d *DB) withGameLock(ctx context.Context, gameID int64, fn func(tx *sql.Tx) error) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, gameID); err != nil {
		return fmt.Errorf("locking game %d: %w", gameID, err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) AppendEvent(ctx context.Context, raw event.Raw, check store.AppendCheck) (event.Event, error) {
	next, err := event.Decode(raw)
	if err != nil {
		return nil, err
	}

	var appended event.Event
	err = d.withGameLock(ctx, raw.GameID, func(tx *sql.Tx) error {
		g, err := scanGame(tx.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, raw.GameID))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("getting game %d: %w", raw.GameID, store.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("getting game %d: %w", raw.GameID, err)
		}
		events, err := listEvents(ctx, tx, raw.GameID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(g, events, next); err != nil {
				return err
			}
		}

		var points *int
		if p, ok := next.(event.Points); ok {
			points = &p.Points
		}
		stored := raw
		stored.Points = points
		err = tx.QueryRowContext(ctx, `
			INSERT INTO events (game_id, team_id, type_id, game_time, referee_id, points)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, raw.GameID, raw.TeamID, raw.TypeID, raw.Time, raw.RefereeID, points).Scan(&stored.EventID, &stored.Created)
		if err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
		appended, err = event.Decode(stored)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.log.Debug("event appended",
		zap.Int64("game", raw.GameID),
		zap.Int64("event", appended.Info().ID),
		zap.Stringer("type", appended.Type()))
	return appended, nil
}

func (d *DB) RemoveLatestEvent(ctx context.Context, gameID, eventID int64, check store.RemoveCheck) error {
	err := d.withGameLock(ctx, gameID, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM games WHERE id = $1)`, gameID).Scan(&exists); err != nil {
			return fmt.Errorf("getting game %d: %w", gameID, err)
		}
		if !exists {
			return fmt.Errorf("getting game %d: %w", gameID, store.ErrNotFound)
		}
		events, err := listEvents(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(events, eventID); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND game_id = $2`, eventID, gameID)
		if err != nil {
			return fmt.Errorf("removing event: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("removing event %d: %w", eventID, store.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.log.Debug("event removed", zap.Int64("game", gameID), zap.Int64("event", eventID))
	return nil
}
