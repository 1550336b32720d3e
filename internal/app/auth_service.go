// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"gamevault/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided handle or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid handle or password")
	// ErrInvalidSession indicates a session token that is unknown or expired.
	ErrInvalidSession = errors.New("invalid or expired session")
)

// dummyHash is compared against when the handle is unknown so that a failed
// login costs one bcrypt verification either way.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

const defaultSessionTTL = 24 * time.Hour

// AuthService handles registration, authentication, and session management.
// Sessions use a fixed expiry window from issue time; validation does not
// extend it.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	ttl      time.Duration
}

// NewAuthService creates a new authentication service. A non-positive ttl
// falls back to 24 hours.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{users: users, sessions: sessions, ttl: ttl}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, handle, password string) (*domain.User, error) {
	handle = strings.TrimSpace(handle)
	if len(handle) < 3 || len(handle) > 32 {
		return nil, fmt.Errorf("%w: handle must be 3-32 characters", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	existing, err := s.users.GetUserByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: handle already taken", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.CreateUser(ctx, handle, string(hash))
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, handle, password string) (string, *domain.User, error) {
	user, err := s.users.GetUserByHandle(ctx, handle)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return "", nil, err
	}

	expiresAt := time.Now().Add(s.ttl)
	if err := s.sessions.CreateSession(ctx, user.ID, token, expiresAt); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout invalidates a session. Revoking an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// ValidateSession resolves a session token to its user. Expired sessions are
// removed on read.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	session, err := s.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidSession
	}

	if !time.Now().Before(session.ExpiresAt) {
		_ = s.sessions.DeleteSession(ctx, token)
		return nil, ErrInvalidSession
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidSession
	}
	return user, nil
}

// LoginWithIdentity creates a session for an identity already verified
// elsewhere (e.g. an OIDC provider), provisioning the user on first sight.
func (s *AuthService) LoginWithIdentity(ctx context.Context, handle string) (string, *domain.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", nil, fmt.Errorf("%w: empty identity", domain.ErrInvalidInput)
	}

	user, err := s.users.GetUserByHandle(ctx, handle)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		// No password hash; such users can only log in through the provider.
		user, err = s.users.CreateUser(ctx, handle, "")
		if err != nil {
			// Lost a provisioning race; the row should exist now.
			user, err = s.users.GetUserByHandle(ctx, handle)
			if err != nil || user == nil {
				return "", nil, err
			}
		}
	}

	token, err := generateToken()
	if err != nil {
		return "", nil, err
	}
	expiresAt := time.Now().Add(s.ttl)
	if err := s.sessions.CreateSession(ctx, user.ID, token, expiresAt); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
