// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable for the bot process.
type Config struct {
	// RedisAddr is the address of the backing Redis store
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// RedisPassword is the Redis auth password, empty for none
	RedisPassword string `env:"REDIS_PASSWORD"`

	// RedisDB is the Redis logical database index
	RedisDB int `env:"REDIS_DB" envDefault:"0"`

	// DiscordToken is the bot token for the Discord transport
	DiscordToken string `env:"DISCORD_TOKEN"`

	// SessionTTL is the inactivity window after which a session expires
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// MinPlayers is the minimum headcount required to start a game
	MinPlayers int `env:"MIN_PLAYERS" envDefault:"3"`

	// MaxPlayers is the member cap per session
	MaxPlayers int `env:"MAX_PLAYERS" envDefault:"12"`

	// LockLeaseTTL bounds how long a crashed holder can pin a session lock
	LockLeaseTTL time.Duration `env:"LOCK_LEASE_TTL" envDefault:"5s"`

	// LockWaitTimeout bounds how long a command waits for a busy session
	LockWaitTimeout time.Duration `env:"LOCK_WAIT_TIMEOUT" envDefault:"2s"`

	// LogLevel is the zerolog level name (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.MinPlayers < 2 {
		return nil, fmt.Errorf("MIN_PLAYERS must be at least 2, got %d", cfg.MinPlayers)
	}

	if cfg.MaxPlayers < cfg.MinPlayers {
		return nil, fmt.Errorf("MAX_PLAYERS (%d) cannot be below MIN_PLAYERS (%d)", cfg.MaxPlayers, cfg.MinPlayers)
	}

	return cfg, nil
}
