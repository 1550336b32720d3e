package domain

import (
	"context"
	"time"
)

// Game is a catalogued title owned by exactly one user.
type Game struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"user_id"`
	Name      string    `json:"name"`
	Genre     string    `json:"genre"`
	CreatedAt time.Time `json:"created_at"`
}

// GameUpdate carries a partial update. Nil fields retain their prior value.
type GameUpdate struct {
	Name  *string
	Genre *string
}

// GameRepository is the port for game persistence. Every operation is scoped
// to ownerID; a record that exists but belongs to someone else reports
// ErrNotFound.
type GameRepository interface {
	CreateGame(ctx context.Context, ownerID int64, name, genre string) (*Game, error)
	ListGames(ctx context.Context, ownerID int64) ([]Game, error)
	GetGame(ctx context.Context, ownerID, id int64) (*Game, error)
	UpdateGame(ctx context.Context, ownerID, id int64, upd GameUpdate) (*Game, error)
	// DeleteGame removes the game and all of its loadouts as one atomic
	// operation. No reader may observe a surviving loadout for a deleted game.
	DeleteGame(ctx context.Context, ownerID, id int64) error
}
