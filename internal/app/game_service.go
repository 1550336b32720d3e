package app

import (
	"context"
	"fmt"
	"strings"

	"gamevault/internal/domain"
)

// GameService encapsulates game-catalog use cases. The owner id on every call
// comes from the validated session, never from the request body.
type GameService struct {
	repo domain.GameRepository
}

// NewGameService creates a GameService backed by the given repository.
func NewGameService(repo domain.GameRepository) *GameService {
	return &GameService{repo: repo}
}

// Create validates and stores a new game.
func (s *GameService) Create(ctx context.Context, ownerID int64, name, genre string) (*domain.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return s.repo.CreateGame(ctx, ownerID, name, genre)
}

// List returns all games owned by ownerID, ordered by name.
func (s *GameService) List(ctx context.Context, ownerID int64) ([]domain.Game, error) {
	return s.repo.ListGames(ctx, ownerID)
}

// Get returns one owned game.
func (s *GameService) Get(ctx context.Context, ownerID, id int64) (*domain.Game, error) {
	return s.repo.GetGame(ctx, ownerID, id)
}

// Update applies a partial update. A supplied name may not be blank.
func (s *GameService) Update(ctx context.Context, ownerID, id int64, upd domain.GameUpdate) (*domain.Game, error) {
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
		}
		upd.Name = &trimmed
	}
	return s.repo.UpdateGame(ctx, ownerID, id, upd)
}

// Delete removes a game together with all of its loadouts.
func (s *GameService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.repo.DeleteGame(ctx, ownerID, id)
}
