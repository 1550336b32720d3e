package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	adapthttp "gamevault/internal/adapter/http"
	"gamevault/internal/adapter/memory"
	"gamevault/internal/adapter/sqldb"
	"gamevault/internal/app"
	"gamevault/internal/config"
	"gamevault/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	var (
		users    domain.UserRepository
		sessions domain.SessionRepository
		games    domain.GameRepository
		loadouts domain.LoadoutRepository
	)

	if cfg.Database.Driver == "memory" {
		db := memory.New()
		users, sessions, games, loadouts = db, memory.NewSessionRepo(db), db, db
	} else {
		db, err := sqldb.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("db open", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
		users, sessions, games, loadouts = db, sqldb.NewSessionRepo(db), db, db
	}

	authSvc := app.NewAuthService(users, sessions, time.Duration(cfg.Session.TTLHours)*time.Hour)
	gameSvc := app.NewGameService(games)
	loadoutSvc := app.NewLoadoutService(loadouts, games)

	oidcCfg := adapthttp.OIDCConfig{}
	if cfg.OIDC.Issuer != "" {
		provider, err := oidc.NewProvider(context.Background(), cfg.OIDC.Issuer)
		if err != nil {
			logger.Fatal("oidc provider", zap.Error(err))
		}
		oidcCfg = adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: &oauth2.Config{
				ClientID:     cfg.OIDC.ClientID,
				ClientSecret: cfg.OIDC.ClientSecret,
				RedirectURL:  cfg.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			},
		}
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second
	h := adapthttp.New(authSvc, gameSvc, loadoutSvc, oidcCfg, logger, timeout).Handler()

	logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("driver", cfg.Database.Driver))
	if err := http.ListenAndServe(cfg.Server.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", zap.Error(err))
	}
}
