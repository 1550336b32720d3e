package app

import (
	"context"
	"fmt"
	"strings"

	"gamevault/internal/domain"
)

// LoadoutService encapsulates loadout use cases. Referential checks against
// the parent game go through the ownership-scoped game repository, so a game
// belonging to someone else is indistinguishable from a missing one.
type LoadoutService struct {
	loadouts domain.LoadoutRepository
	games    domain.GameRepository
}

// NewLoadoutService creates a LoadoutService backed by the given repositories.
func NewLoadoutService(loadouts domain.LoadoutRepository, games domain.GameRepository) *LoadoutService {
	return &LoadoutService{loadouts: loadouts, games: games}
}

// Create validates and stores a new loadout under an owned game.
func (s *LoadoutService) Create(ctx context.Context, ownerID, gameID int64, name, weapons, abilities, stats, notes string) (*domain.Loadout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game_id is required", domain.ErrInvalidInput)
	}
	if _, err := s.games.GetGame(ctx, ownerID, gameID); err != nil {
		return nil, err
	}
	return s.loadouts.CreateLoadout(ctx, ownerID, gameID, name, weapons, abilities, stats, notes)
}

// List returns the owner's loadouts, optionally narrowed to one game.
func (s *LoadoutService) List(ctx context.Context, ownerID int64, gameID *int64) ([]domain.Loadout, error) {
	return s.loadouts.ListLoadouts(ctx, ownerID, gameID)
}

// Get returns one owned loadout.
func (s *LoadoutService) Get(ctx context.Context, ownerID, id int64) (*domain.Loadout, error) {
	return s.loadouts.GetLoadout(ctx, ownerID, id)
}

// Update applies a partial update. A supplied name may not be blank; a
// supplied game_id must resolve to an owned game.
func (s *LoadoutService) Update(ctx context.Context, ownerID, id int64, upd domain.LoadoutUpdate) (*domain.Loadout, error) {
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
		}
		upd.Name = &trimmed
	}
	if upd.GameID != nil {
		if *upd.GameID <= 0 {
			return nil, fmt.Errorf("%w: game_id is required", domain.ErrInvalidInput)
		}
		if _, err := s.games.GetGame(ctx, ownerID, *upd.GameID); err != nil {
			return nil, err
		}
	}
	return s.loadouts.UpdateLoadout(ctx, ownerID, id, upd)
}

// Delete removes one owned loadout.
func (s *LoadoutService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.loadouts.DeleteLoadout(ctx, ownerID, id)
}
