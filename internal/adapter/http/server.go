// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"
	"time"

	"gamevault/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// OIDCConfig carries the optional single-sign-on wiring. Enabled is false
// when no provider is configured.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services and maps domain failures to status codes.
type Server struct {
	auth           *app.AuthService
	games          *app.GameService
	loadouts       *app.LoadoutService
	oidcConfig     OIDCConfig
	logger         *zap.Logger
	requestTimeout time.Duration
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, games *app.GameService, loadouts *app.LoadoutService, oidcConfig OIDCConfig, logger *zap.Logger, requestTimeout time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	return &Server{
		auth:           auth,
		games:          games,
		loadouts:       loadouts,
		oidcConfig:     oidcConfig,
		logger:         logger,
		requestTimeout: requestTimeout,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requestLog, s.withTimeout)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	auth.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	auth.HandleFunc("/config", s.handleAuthConfig).Methods(http.MethodGet)
	auth.HandleFunc("/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	auth.HandleFunc("/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireSession)
	protected.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	protected.HandleFunc("/games", s.handleListGames).Methods(http.MethodGet)
	protected.HandleFunc("/games", s.handleCreateGame).Methods(http.MethodPost)
	protected.HandleFunc("/games/{id}", s.handleGetGame).Methods(http.MethodGet)
	protected.HandleFunc("/games/{id}", s.handleUpdateGame).Methods(http.MethodPut)
	protected.HandleFunc("/games/{id}", s.handleDeleteGame).Methods(http.MethodDelete)

	protected.HandleFunc("/loadouts", s.handleListLoadouts).Methods(http.MethodGet)
	protected.HandleFunc("/loadouts", s.handleCreateLoadout).Methods(http.MethodPost)
	protected.HandleFunc("/loadouts/{id}", s.handleGetLoadout).Methods(http.MethodGet)
	protected.HandleFunc("/loadouts/{id}", s.handleUpdateLoadout).Methods(http.MethodPut)
	protected.HandleFunc("/loadouts/{id}", s.handleDeleteLoadout).Methods(http.MethodDelete)

	return r
}
