// Package config loads application configuration from an optional YAML file
// with GAMEVAULT_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr                  string `mapstructure:"addr"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
}

type DatabaseConfig struct {
	// Driver is "postgres", "sqlite3", or "memory".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type SessionConfig struct {
	TTLHours int `mapstructure:"ttl_hours"`
}

type OIDCConfig struct {
	Issuer       string `mapstructure:"issuer"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	OIDC     OIDCConfig     `mapstructure:"oidc"`
}

// Load reads configuration from path (empty means ./config.yaml, which may be
// absent) and applies environment overrides, e.g. GAMEVAULT_DATABASE_DSN.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout_seconds", 10)
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "./gamevault.db")
	v.SetDefault("session.ttl_hours", 24)
	// Registered empty so environment overrides are picked up by Unmarshal.
	v.SetDefault("oidc.issuer", "")
	v.SetDefault("oidc.client_id", "")
	v.SetDefault("oidc.client_secret", "")
	v.SetDefault("oidc.redirect_url", "")

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("GAMEVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// No config.yaml in the working directory is fine; defaults plus env
		// cover everything. An explicitly named file must exist.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite3", "memory":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	return &cfg, nil
}
