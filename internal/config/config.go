package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds runtime settings for the newsletter service.
type Config struct {
	ServerAddr      string        `env:"SERVER_ADDR"          envDefault:":8080"`
	BaseURL         string        `env:"APP_BASE_URL"`
	MongoURI        string        `env:"MONGO_URI"`
	MongoDatabase   string        `env:"MONGO_DATABASE"       envDefault:"newsletter"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"     envDefault:"10s"`

	// SendTimeout bounds every single outbound email dispatch. A send that
	// exceeds it is treated as a delivery failure.
	SendTimeout time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"10s"`

	// TokenTTL is the lifetime of a subscription confirmation token.
	TokenTTL time.Duration `env:"SUBSCRIPTION_TOKEN_TTL" envDefault:"48h"`

	Session SessionConfig

	// Bootstrap credentials for the operator account. When both are set the
	// account is created (or its password updated) at startup.
	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// SessionConfig holds settings for operator session cookies.
type SessionConfig struct {
	Secret    string        `env:"SESSION_SECRET"`
	Issuer    string        `env:"SESSION_ISSUER"     envDefault:"newsletter-api"`
	ExpiresIn time.Duration `env:"SESSION_EXPIRES_IN" envDefault:"1h"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks that required settings are present.
func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("missing APP_BASE_URL environment variable")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("missing SESSION_SECRET environment variable")
	}

	return nil
}
