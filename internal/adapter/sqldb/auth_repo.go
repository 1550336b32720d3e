package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gamevault/internal/domain"
)

// GetUserByHandle retrieves a user by login handle.
func (d *DB) GetUserByHandle(ctx context.Context, handle string) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		d.sql.Rebind("SELECT id, handle, password_hash, created_at FROM users WHERE handle = ?"),
		handle,
	).Scan(&u.ID, &u.Handle, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by ID.
func (d *DB) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		d.sql.Rebind("SELECT id, handle, password_hash, created_at FROM users WHERE id = ?"),
		id,
	).Scan(&u.ID, &u.Handle, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

// CreateUser creates a new user. A taken handle reports domain.ErrConflict.
func (d *DB) CreateUser(ctx context.Context, handle, passwordHash string) (*domain.User, error) {
	createdAt := time.Now().UTC()
	id, err := d.insertID(ctx,
		"INSERT INTO users (handle, password_hash, created_at) VALUES (?, ?, ?)",
		handle, passwordHash, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: handle already taken", domain.ErrConflict)
		}
		return nil, storeErr(err)
	}
	return &domain.User{ID: id, Handle: handle, PasswordHash: passwordHash, CreatedAt: createdAt}, nil
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
	_, err := r.db.sql.ExecContext(ctx,
		r.db.sql.Rebind("INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)"),
		token, userID, expiresAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// GetSessionByToken retrieves a session by token.
func (r *SessionRepo) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.sql.QueryRowContext(ctx,
		r.db.sql.Rebind("SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?"),
		token,
	).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &s, nil
}

// DeleteSession deletes a session by token. Unknown tokens are a no-op.
func (r *SessionRepo) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.sql.ExecContext(ctx, r.db.sql.Rebind("DELETE FROM sessions WHERE token = ?"), token); err != nil {
		return storeErr(err)
	}
	return nil
}

// DeleteExpiredSessions deletes all expired sessions.
func (r *SessionRepo) DeleteExpiredSessions(ctx context.Context) error {
	if _, err := r.db.sql.ExecContext(ctx, r.db.sql.Rebind("DELETE FROM sessions WHERE expires_at < ?"), time.Now().UTC()); err != nil {
		return storeErr(err)
	}
	return nil
}
