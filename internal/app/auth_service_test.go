package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gamevault/internal/app"
	"gamevault/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	byHandleFn func(ctx context.Context, handle string) (*domain.User, error)
	byIDFn     func(ctx context.Context, id int64) (*domain.User, error)
	createFn   func(ctx context.Context, handle, passwordHash string) (*domain.User, error)
}

func (m *mockUserRepo) GetUserByHandle(ctx context.Context, handle string) (*domain.User, error) {
	if m.byHandleFn != nil {
		return m.byHandleFn(ctx, handle)
	}
	return nil, nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) CreateUser(ctx context.Context, handle, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, handle, passwordHash)
	}
	return &domain.User{ID: 1, Handle: handle, PasswordHash: passwordHash}, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	getFn           func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) CreateSession(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getFn != nil {
		return m.getFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteSession(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpiredSessions(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestRegister_Validation(t *testing.T) {
	svc := app.NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, 0)

	tests := []struct {
		name     string
		handle   string
		password string
	}{
		{"short handle", "ab", "password"},
		{"long handle", strings.Repeat("a", 33), "password"},
		{"whitespace handle", "   ", "password"},
		{"short password", "alice", "pw"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.handle, tc.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	var storedHash string
	users := &mockUserRepo{
		createFn: func(_ context.Context, handle, passwordHash string) (*domain.User, error) {
			storedHash = passwordHash
			return &domain.User{ID: 1, Handle: handle, PasswordHash: passwordHash}, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, 0)

	user, err := svc.Register(context.Background(), "alice", "pw12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Handle != "alice" {
		t.Fatalf("expected handle alice, got %q", user.Handle)
	}
	if storedHash == "pw12345" || storedHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("pw12345")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegister_Conflict(t *testing.T) {
	users := &mockUserRepo{
		byHandleFn: func(_ context.Context, handle string) (*domain.User, error) {
			return &domain.User{ID: 1, Handle: handle}, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, 0)

	_, err := svc.Register(context.Background(), "alice", "pw12345")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	hash := hashOf(t, "pw12345")
	users := &mockUserRepo{
		byHandleFn: func(_ context.Context, handle string) (*domain.User, error) {
			if handle != "alice" {
				return nil, nil
			}
			return &domain.User{ID: 1, Handle: "alice", PasswordHash: hash}, nil
		},
	}

	var created *domain.Session
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, userID int64, token string, expiresAt time.Time) error {
			created = &domain.Session{Token: token, UserID: userID, ExpiresAt: expiresAt}
			return nil
		},
	}

	svc := app.NewAuthService(users, sessions, 24*time.Hour)
	token, user, err := svc.Login(context.Background(), "alice", "pw12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || created == nil || created.Token != token {
		t.Fatal("expected a session to be created for the returned token")
	}
	if user.ID != 1 {
		t.Fatalf("expected user id 1, got %d", user.ID)
	}

	ttl := time.Until(created.ExpiresAt)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Fatalf("expected ~24h expiry, got %v", ttl)
	}
}

func TestLogin_FailureKindIsUniform(t *testing.T) {
	hash := hashOf(t, "right-password")
	users := &mockUserRepo{
		byHandleFn: func(_ context.Context, handle string) (*domain.User, error) {
			if handle == "alice" {
				return &domain.User{ID: 1, Handle: "alice", PasswordHash: hash}, nil
			}
			return nil, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, 0)

	_, _, wrongPw := svc.Login(context.Background(), "alice", "wrong-password")
	_, _, noUser := svc.Login(context.Background(), "nobody", "whatever")

	if !errors.Is(wrongPw, app.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if !errors.Is(noUser, app.ErrInvalidCredentials) {
		t.Fatalf("unknown handle: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPw.Error() != noUser.Error() {
		t.Fatal("failure messages must not reveal which part was wrong")
	}
}

func TestLogin_TokensAreUnique(t *testing.T) {
	hash := hashOf(t, "pw12345")
	users := &mockUserRepo{
		byHandleFn: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: 1, Handle: "alice", PasswordHash: hash}, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, 0)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		token, _, err := svc.Login(context.Background(), "alice", "pw12345")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[token] {
			t.Fatal("token repeated")
		}
		seen[token] = true
	}
}

func TestValidateSession_Valid(t *testing.T) {
	sessions := &mockSessionRepo{
		getFn: func(_ context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	users := &mockUserRepo{
		byIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Handle: "alice"}, nil
		},
	}
	svc := app.NewAuthService(users, sessions, 0)

	user, err := svc.ValidateSession(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("expected user id 7, got %d", user.ID)
	}
}

func TestValidateSession_ExpiredIsRemoved(t *testing.T) {
	deleted := ""
	sessions := &mockSessionRepo{
		getFn: func(_ context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: 7, ExpiresAt: time.Now().Add(-time.Second)}, nil
		},
		deleteFn: func(_ context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	svc := app.NewAuthService(&mockUserRepo{}, sessions, 0)

	_, err := svc.ValidateSession(context.Background(), "stale")
	if !errors.Is(err, app.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if deleted != "stale" {
		t.Fatal("expected expired session to be deleted on read")
	}
}

func TestValidateSession_UnknownAndEmpty(t *testing.T) {
	svc := app.NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, 0)

	for _, token := range []string{"", "unknown"} {
		if _, err := svc.ValidateSession(context.Background(), token); !errors.Is(err, app.ErrInvalidSession) {
			t.Fatalf("token %q: expected ErrInvalidSession, got %v", token, err)
		}
	}
}

func TestLogout_UnknownTokenIsNoop(t *testing.T) {
	svc := app.NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, 0)
	if err := svc.Logout(context.Background(), "never-issued"); err != nil {
		t.Fatalf("revoking an unknown token must not fail: %v", err)
	}
}

func TestLoginWithIdentity_Provisions(t *testing.T) {
	var createdHandle string
	users := &mockUserRepo{
		createFn: func(_ context.Context, handle, passwordHash string) (*domain.User, error) {
			createdHandle = handle
			if passwordHash != "" {
				t.Fatal("provisioned identity must not get a password hash")
			}
			return &domain.User{ID: 3, Handle: handle}, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, 0)

	token, user, err := svc.LoginWithIdentity(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || user.ID != 3 || createdHandle != "alice@example.com" {
		t.Fatalf("expected provisioned login, got token=%q user=%+v", token, user)
	}
}
