// Package memory implements the domain repositories in process memory, for
// development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gamevault/internal/domain"
)

// DB implements an in-memory database storage. A single mutex guards every
// table, which is what makes the game-delete cascade atomic to readers.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	sessions map[string]*domain.Session
	games    []domain.Game
	loadouts []domain.Loadout

	userIDCounter    int64
	gameIDCounter    int64
	loadoutIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.GameRepository = (*DB)(nil)
var _ domain.LoadoutRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- UserRepository ---

// GetUserByHandle retrieves a user by handle.
func (db *DB) GetUserByHandle(ctx context.Context, handle string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Handle == handle {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// CreateUser creates a new user.
func (db *DB) CreateUser(ctx context.Context, handle, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Handle == handle {
			return nil, fmt.Errorf("%w: handle already taken", domain.ErrConflict)
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Handle:       handle,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	copied := *u
	return &copied, nil
}

// --- GameRepository ---

// CreateGame creates a game for the owner.
func (db *DB) CreateGame(ctx context.Context, ownerID int64, name, genre string) (*domain.Game, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.gameIDCounter++
	g := domain.Game{
		ID:        db.gameIDCounter,
		OwnerID:   ownerID,
		Name:      name,
		Genre:     genre,
		CreatedAt: time.Now().UTC(),
	}
	db.games = append(db.games, g)
	return &g, nil
}

// ListGames returns the owner's games ordered by name.
func (db *DB) ListGames(ctx context.Context, ownerID int64) ([]domain.Game, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Game, 0)
	for _, g := range db.games {
		if g.OwnerID == ownerID {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetGame returns one owned game, or ErrNotFound.
func (db *DB) GetGame(ctx context.Context, ownerID, id int64) (*domain.Game, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.getGameLocked(ownerID, id)
}

func (db *DB) getGameLocked(ownerID, id int64) (*domain.Game, error) {
	for i := range db.games {
		if db.games[i].ID == id && db.games[i].OwnerID == ownerID {
			copied := db.games[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

// UpdateGame applies a partial update to an owned game.
func (db *DB) UpdateGame(ctx context.Context, ownerID, id int64, upd domain.GameUpdate) (*domain.Game, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.games {
		if db.games[i].ID == id && db.games[i].OwnerID == ownerID {
			if upd.Name != nil {
				db.games[i].Name = *upd.Name
			}
			if upd.Genre != nil {
				db.games[i].Genre = *upd.Genre
			}
			copied := db.games[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

// DeleteGame removes a game and its loadouts under one lock acquisition, so
// no reader sees the game gone while a loadout survives.
func (db *DB) DeleteGame(ctx context.Context, ownerID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	idx := -1
	for i := range db.games {
		if db.games[i].ID == id && db.games[i].OwnerID == ownerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.ErrNotFound
	}

	kept := db.loadouts[:0]
	for _, l := range db.loadouts {
		if !(l.OwnerID == ownerID && l.GameID == id) {
			kept = append(kept, l)
		}
	}
	db.loadouts = kept
	db.games = append(db.games[:idx], db.games[idx+1:]...)
	return nil
}

// --- LoadoutRepository ---

// CreateLoadout creates a loadout under an owned game.
func (db *DB) CreateLoadout(ctx context.Context, ownerID, gameID int64, name, weapons, abilities, stats, notes string) (*domain.Loadout, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	game, err := db.getGameLocked(ownerID, gameID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	db.loadoutIDCounter++
	l := domain.Loadout{
		ID:        db.loadoutIDCounter,
		OwnerID:   ownerID,
		GameID:    gameID,
		Name:      name,
		Weapons:   weapons,
		Abilities: abilities,
		Stats:     stats,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.loadouts = append(db.loadouts, l)

	out := l
	out.Game = &domain.GameRef{ID: game.ID, Name: game.Name}
	return &out, nil
}

// ListLoadouts returns the owner's loadouts, newest update first, each with
// its game summary.
func (db *DB) ListLoadouts(ctx context.Context, ownerID int64, gameID *int64) ([]domain.Loadout, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Loadout, 0)
	for _, l := range db.loadouts {
		if l.OwnerID != ownerID {
			continue
		}
		if gameID != nil && l.GameID != *gameID {
			continue
		}
		if game, err := db.getGameLocked(ownerID, l.GameID); err == nil {
			l.Game = &domain.GameRef{ID: game.ID, Name: game.Name}
		}
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// GetLoadout returns one owned loadout with its game summary.
func (db *DB) GetLoadout(ctx context.Context, ownerID, id int64) (*domain.Loadout, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, l := range db.loadouts {
		if l.ID == id && l.OwnerID == ownerID {
			if game, err := db.getGameLocked(ownerID, l.GameID); err == nil {
				l.Game = &domain.GameRef{ID: game.ID, Name: game.Name}
			}
			return &l, nil
		}
	}
	return nil, domain.ErrNotFound
}

// UpdateLoadout applies a partial update and always refreshes UpdatedAt.
func (db *DB) UpdateLoadout(ctx context.Context, ownerID, id int64, upd domain.LoadoutUpdate) (*domain.Loadout, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.loadouts {
		l := &db.loadouts[i]
		if l.ID != id || l.OwnerID != ownerID {
			continue
		}
		if upd.GameID != nil {
			l.GameID = *upd.GameID
		}
		if upd.Name != nil {
			l.Name = *upd.Name
		}
		if upd.Weapons != nil {
			l.Weapons = *upd.Weapons
		}
		if upd.Abilities != nil {
			l.Abilities = *upd.Abilities
		}
		if upd.Stats != nil {
			l.Stats = *upd.Stats
		}
		if upd.Notes != nil {
			l.Notes = *upd.Notes
		}
		l.UpdatedAt = nextAfter(l.UpdatedAt)

		out := *l
		if game, err := db.getGameLocked(ownerID, out.GameID); err == nil {
			out.Game = &domain.GameRef{ID: game.ID, Name: game.Name}
		}
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

// DeleteLoadout removes one owned loadout.
func (db *DB) DeleteLoadout(ctx context.Context, ownerID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.loadouts {
		if db.loadouts[i].ID == id && db.loadouts[i].OwnerID == ownerID {
			db.loadouts = append(db.loadouts[:i], db.loadouts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// nextAfter guarantees a strictly advancing timestamp even when the clock
// resolution would return the same instant twice.
func nextAfter(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// CreateSession creates a new session.
func (r *SessionRepo) CreateSession(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetSessionByToken retrieves a session by token.
func (r *SessionRepo) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

// DeleteSession deletes a session.
func (r *SessionRepo) DeleteSession(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpiredSessions deletes all expired sessions.
func (r *SessionRepo) DeleteExpiredSessions(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
