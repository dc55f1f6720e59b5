// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
)

// Storage backend names accepted in STORE.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds everything the server needs from the environment.
// ADMIN_TOKEN_TTL must outlive the drawing: the creator holds the token
// from group creation until the draw.
type Config struct {
	Port int `env:"PORT,default=8080"`

	Store    string `env:"STORE,default=json"`
	DataPath string `env:"DATA_PATH,default=./data/groups.json"`
	DBPath   string `env:"DB_PATH,default=./data/groups.db"`

	JWTSecret     string        `env:"JWT_SECRET,required=true"`
	AdminTokenTTL time.Duration `env:"ADMIN_TOKEN_TTL,default=720h"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Store != StoreJSON && cfg.Store != StoreSQLite {
		return Config{}, fmt.Errorf("STORE must be %q or %q, got %q", StoreJSON, StoreSQLite, cfg.Store)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}

	return cfg, nil
}
