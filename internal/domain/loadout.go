package domain

import (
	"context"
	"time"
)

// GameRef is the parent-game summary attached to loadouts at read time.
type GameRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Loadout is a build configuration tied to one game.
type Loadout struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"user_id"`
	GameID    int64     `json:"game_id"`
	Name      string    `json:"name"`
	Weapons   string    `json:"weapons"`
	Abilities string    `json:"abilities"`
	Stats     string    `json:"stats"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Game      *GameRef  `json:"game,omitempty"`
}

// LoadoutUpdate carries a partial update. Nil fields retain their prior value.
type LoadoutUpdate struct {
	GameID    *int64
	Name      *string
	Weapons   *string
	Abilities *string
	Stats     *string
	Notes     *string
}

// LoadoutRepository is the port for loadout persistence, scoped to ownerID
// under the same opacity rule as games. Reads join in the parent game summary.
type LoadoutRepository interface {
	CreateLoadout(ctx context.Context, ownerID, gameID int64, name, weapons, abilities, stats, notes string) (*Loadout, error)
	// ListLoadouts returns all of the owner's loadouts, newest update first.
	// A non-nil gameID narrows the result to that game; an id the owner does
	// not hold simply yields an empty slice.
	ListLoadouts(ctx context.Context, ownerID int64, gameID *int64) ([]Loadout, error)
	GetLoadout(ctx context.Context, ownerID, id int64) (*Loadout, error)
	// UpdateLoadout advances UpdatedAt on every successful call, even when
	// the supplied values equal the stored ones.
	UpdateLoadout(ctx context.Context, ownerID, id int64, upd LoadoutUpdate) (*Loadout, error)
	DeleteLoadout(ctx context.Context, ownerID, id int64) error
}
