package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-enroll"
)

// devSigningKey keeps local development friction-free. Production refuses to
// boot with it.
const devSigningKey = "dev-secret-change-me"

// Config is loaded from environment variables.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development" json:"app_env"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8000" json:"http_addr"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:enroll.db?cache=shared&mode=rwc" json:"database_dsn"`

	SigningKey      string   `env:"AUTH_SIGNING_KEY" envDefault:"dev-secret-change-me" json:"signing_key"`
	SigningMethod   string   `env:"AUTH_SIGNING_METHOD" envDefault:"HS256" json:"signing_method"`
	TokenTTLMinutes int      `env:"AUTH_TOKEN_TTL" envDefault:"60" json:"token_ttl_minutes"`
	ContextKey      string   `env:"AUTH_CONTEXT_KEY" envDefault:"user" json:"context_key"`
	TokenLookup     string   `env:"AUTH_TOKEN_LOOKUP" envDefault:"header:Authorization" json:"token_lookup"`
	AuthScheme      string   `env:"AUTH_SCHEME" envDefault:"Bearer" json:"auth_scheme"`
	Issuer          string   `env:"AUTH_ISSUER" envDefault:"go-enroll" json:"issuer"`
	Audience        []string `env:"AUTH_AUDIENCE" envSeparator:"," json:"audience"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that must never reach production.
func (c *Config) Validate() error {
	if c.IsProduction() && c.SigningKey == devSigningKey {
		return fmt.Errorf("AUTH_SIGNING_KEY must be set in production")
	}

	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be a positive number of minutes")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Redacted returns a copy safe for logging.
func (c *Config) Redacted() Config {
	out := *c
	out.SigningKey = "[REDACTED]"
	return out
}

func (c *Config) GetSigningKey() string { return c.SigningKey }
func (c *Config) GetSigningMethod() string { return c.SigningMethod }
func (c *Config) GetContextKey() string { return c.ContextKey }
func (c *Config) GetTokenExpiration() int { return c.TokenTTLMinutes }
func (c *Config) GetTokenLookup() string { return c.TokenLookup }
func (c *Config) GetAuthScheme() string { return c.AuthScheme }
func (c *Config) GetIssuer() string { return c.Issuer }
func (c *Config) GetAudience() []string { return c.Audience }

var _ enroll.Config = (*Config)(nil)
