package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"gamevault/internal/domain"
)

// CreateGame inserts a new game for the owner.
func (d *DB) CreateGame(ctx context.Context, ownerID int64, name, genre string) (*domain.Game, error) {
	createdAt := time.Now().UTC()
	id, err := d.insertID(ctx,
		"INSERT INTO games (owner_id, name, genre, created_at) VALUES (?, ?, ?, ?)",
		ownerID, name, genre, createdAt,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	return &domain.Game{ID: id, OwnerID: ownerID, Name: name, Genre: genre, CreatedAt: createdAt}, nil
}

// ListGames returns all games owned by ownerID, ordered by name.
func (d *DB) ListGames(ctx context.Context, ownerID int64) ([]domain.Game, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.sql.Rebind("SELECT id, owner_id, name, genre, created_at FROM games WHERE owner_id = ? ORDER BY name, id"),
		ownerID,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Game, 0)
	for rows.Next() {
		var g domain.Game
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Genre, &g.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// GetGame returns one game scoped to the owner. A game that exists under a
// different owner reports domain.ErrNotFound.
func (d *DB) GetGame(ctx context.Context, ownerID, id int64) (*domain.Game, error) {
	var g domain.Game
	err := d.sql.QueryRowContext(ctx,
		d.sql.Rebind("SELECT id, owner_id, name, genre, created_at FROM games WHERE id = ? AND owner_id = ?"),
		id, ownerID,
	).Scan(&g.ID, &g.OwnerID, &g.Name, &g.Genre, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &g, nil
}

// UpdateGame applies a partial update to an owned game. Only the supplied
// columns appear in the UPDATE, so concurrent updates to different fields do
// not overwrite each other.
func (d *DB) UpdateGame(ctx context.Context, ownerID, id int64, upd domain.GameUpdate) (*domain.Game, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Genre != nil {
		sets = append(sets, "genre = ?")
		args = append(args, *upd.Genre)
	}
	if len(sets) == 0 {
		return d.GetGame(ctx, ownerID, id)
	}

	args = append(args, id, ownerID)
	res, err := d.sql.ExecContext(ctx,
		d.sql.Rebind("UPDATE games SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner_id = ?"),
		args...,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, storeErr(err)
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}
	return d.GetGame(ctx, ownerID, id)
}

// DeleteGame removes a game and all of its loadouts in one transaction, so
// concurrent readers never observe a half-finished cascade.
func (d *DB) DeleteGame(ctx context.Context, ownerID, id int64) error {
	tx, err := d.sql.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		d.sql.Rebind("DELETE FROM loadouts WHERE owner_id = ? AND game_id = ?"),
		ownerID, id,
	); err != nil {
		return storeErr(err)
	}

	res, err := tx.ExecContext(ctx,
		d.sql.Rebind("DELETE FROM games WHERE id = ? AND owner_id = ?"),
		id, ownerID,
	)
	if err != nil {
		return storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return storeErr(err)
	}
	return nil
}
