package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"gamevault/internal/domain"
)

const loadoutColumns = `l.id, l.owner_id, l.game_id, l.name, l.weapons, l.abilities, l.stats, l.notes, l.created_at, l.updated_at, g.name`

// CreateLoadout inserts a new loadout and returns it joined with its game.
func (d *DB) CreateLoadout(ctx context.Context, ownerID, gameID int64, name, weapons, abilities, stats, notes string) (*domain.Loadout, error) {
	now := time.Now().UTC()
	id, err := d.insertID(ctx,
		"INSERT INTO loadouts (owner_id, game_id, name, weapons, abilities, stats, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		ownerID, gameID, name, weapons, abilities, stats, notes, now, now,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	return d.GetLoadout(ctx, ownerID, id)
}

// ListLoadouts returns the owner's loadouts with their game summaries, most
// recently updated first. A gameID the owner does not hold yields an empty
// slice.
func (d *DB) ListLoadouts(ctx context.Context, ownerID int64, gameID *int64) ([]domain.Loadout, error) {
	query := "SELECT " + loadoutColumns + ` FROM loadouts l
		JOIN games g ON g.id = l.game_id AND g.owner_id = l.owner_id
		WHERE l.owner_id = ?`
	args := []any{ownerID}
	if gameID != nil {
		query += " AND l.game_id = ?"
		args = append(args, *gameID)
	}
	query += " ORDER BY l.updated_at DESC, l.id DESC"

	rows, err := d.sql.QueryContext(ctx, d.sql.Rebind(query), args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Loadout, 0)
	for rows.Next() {
		l, err := scanLoadout(rows.Scan)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// GetLoadout returns one loadout scoped to the owner, joined with its game.
func (d *DB) GetLoadout(ctx context.Context, ownerID, id int64) (*domain.Loadout, error) {
	row := d.sql.QueryRowContext(ctx,
		d.sql.Rebind("SELECT "+loadoutColumns+` FROM loadouts l
			JOIN games g ON g.id = l.game_id AND g.owner_id = l.owner_id
			WHERE l.id = ? AND l.owner_id = ?`),
		id, ownerID,
	)
	l, err := scanLoadout(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return l, nil
}

// UpdateLoadout applies a partial update and refreshes updated_at, even when
// the supplied values match the stored ones. Only the supplied columns appear
// in the UPDATE, so concurrent updates to different fields do not overwrite
// each other.
func (d *DB) UpdateLoadout(ctx context.Context, ownerID, id int64, upd domain.LoadoutUpdate) (*domain.Loadout, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if upd.GameID != nil {
		sets = append(sets, "game_id = ?")
		args = append(args, *upd.GameID)
	}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Weapons != nil {
		sets = append(sets, "weapons = ?")
		args = append(args, *upd.Weapons)
	}
	if upd.Abilities != nil {
		sets = append(sets, "abilities = ?")
		args = append(args, *upd.Abilities)
	}
	if upd.Stats != nil {
		sets = append(sets, "stats = ?")
		args = append(args, *upd.Stats)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}
	args = append(args, id, ownerID)

	res, err := d.sql.ExecContext(ctx,
		d.sql.Rebind("UPDATE loadouts SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner_id = ?"),
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
	return d.GetLoadout(ctx, ownerID, id)
}

// DeleteLoadout removes one owned loadout.
func (d *DB) DeleteLoadout(ctx context.Context, ownerID, id int64) error {
	res, err := d.sql.ExecContext(ctx,
		d.sql.Rebind("DELETE FROM loadouts WHERE id = ? AND owner_id = ?"),
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
	return nil
}

func scanLoadout(scan func(...any) error) (*domain.Loadout, error) {
	var l domain.Loadout
	var gameName string
	if err := scan(&l.ID, &l.OwnerID, &l.GameID, &l.Name, &l.Weapons, &l.Abilities, &l.Stats, &l.Notes, &l.CreatedAt, &l.UpdatedAt, &gameName); err != nil {
		return nil, err
	}
	l.Game = &domain.GameRef{ID: l.GameID, Name: gameName}
	return &l, nil
}
