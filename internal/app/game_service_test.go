package app_test

import (
	"context"
	"errors"
	"testing"

	"gamevault/internal/app"
	"gamevault/internal/domain"
)

type mockGameRepo struct {
	createFn func(ctx context.Context, ownerID int64, name, genre string) (*domain.Game, error)
	listFn   func(ctx context.Context, ownerID int64) ([]domain.Game, error)
	getFn    func(ctx context.Context, ownerID, id int64) (*domain.Game, error)
	updateFn func(ctx context.Context, ownerID, id int64, upd domain.GameUpdate) (*domain.Game, error)
	deleteFn func(ctx context.Context, ownerID, id int64) error
}

func (m *mockGameRepo) CreateGame(ctx context.Context, ownerID int64, name, genre string) (*domain.Game, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, name, genre)
	}
	return &domain.Game{ID: 1, OwnerID: ownerID, Name: name, Genre: genre}, nil
}

func (m *mockGameRepo) ListGames(ctx context.Context, ownerID int64) ([]domain.Game, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockGameRepo) GetGame(ctx context.Context, ownerID, id int64) (*domain.Game, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ownerID, id)
	}
	return &domain.Game{ID: id, OwnerID: ownerID, Name: "game"}, nil
}

func (m *mockGameRepo) UpdateGame(ctx context.Context, ownerID, id int64, upd domain.GameUpdate) (*domain.Game, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, ownerID, id, upd)
	}
	return &domain.Game{ID: id, OwnerID: ownerID}, nil
}

func (m *mockGameRepo) DeleteGame(ctx context.Context, ownerID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, id)
	}
	return nil
}

func TestCreateGame_NameRequired(t *testing.T) {
	svc := app.NewGameService(&mockGameRepo{})

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.Create(context.Background(), 1, name, "RPG")
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("name %q: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestCreateGame_TrimsName(t *testing.T) {
	repo := &mockGameRepo{
		createFn: func(_ context.Context, ownerID int64, name, genre string) (*domain.Game, error) {
			if name != "Apex Legends" {
				t.Fatalf("expected trimmed name, got %q", name)
			}
			return &domain.Game{ID: 1, OwnerID: ownerID, Name: name, Genre: genre}, nil
		},
	}
	svc := app.NewGameService(repo)

	g, err := svc.Create(context.Background(), 1, "  Apex Legends  ", "Shooter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Genre != "Shooter" {
		t.Fatalf("expected genre stored verbatim, got %q", g.Genre)
	}
}

func TestUpdateGame_BlankNameRejected(t *testing.T) {
	svc := app.NewGameService(&mockGameRepo{})

	blank := "  "
	_, err := svc.Update(context.Background(), 1, 2, domain.GameUpdate{Name: &blank})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateGame_OmittedFieldsPassThrough(t *testing.T) {
	repo := &mockGameRepo{
		updateFn: func(_ context.Context, _, _ int64, upd domain.GameUpdate) (*domain.Game, error) {
			if upd.Name != nil {
				t.Fatal("name was not supplied and must stay nil")
			}
			if upd.Genre == nil || *upd.Genre != "MOBA" {
				t.Fatalf("expected genre update, got %v", upd.Genre)
			}
			return &domain.Game{ID: 2, Genre: "MOBA"}, nil
		},
	}
	svc := app.NewGameService(repo)

	genre := "MOBA"
	if _, err := svc.Update(context.Background(), 1, 2, domain.GameUpdate{Genre: &genre}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteGame_NotFoundPassesThrough(t *testing.T) {
	repo := &mockGameRepo{
		deleteFn: func(_ context.Context, _, _ int64) error { return domain.ErrNotFound },
	}
	svc := app.NewGameService(repo)

	if err := svc.Delete(context.Background(), 1, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
