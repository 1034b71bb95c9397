package infra

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Server
	ServerHost string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort int    `env:"SERVER_PORT" envDefault:"3000"`

	// JWT
	JWTSecret          string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTExpirationHours int    `env:"JWT_EXPIRATION_HOURS" envDefault:"24"`

	// Game limits
	MaxPlayers int `env:"MAX_PLAYERS" envDefault:"10"`
	MinPlayers int `env:"MIN_PLAYERS" envDefault:"1"`

	// Rate limiting
	RateLimitRequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"10"`

	// Invitations / enrollment windows
	InvitationDefaultTimeoutSeconds int64 `env:"INVITATION_DEFAULT_TIMEOUT_SECONDS" envDefault:"300"`
	InvitationMaxTimeoutSeconds     int64 `env:"INVITATION_MAX_TIMEOUT_SECONDS" envDefault:"3600"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// API versioning
	APIVersionDeprecationMonths int `env:"API_VERSION_DEPRECATION_MONTHS" envDefault:"6"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure configuration that must not run in production.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass (local dev only).
func (c *Config) Validate() error {
	if c.InvitationDefaultTimeoutSeconds > c.InvitationMaxTimeoutSeconds {
		return fmt.Errorf("INVITATION_DEFAULT_TIMEOUT_SECONDS (%d) exceeds INVITATION_MAX_TIMEOUT_SECONDS (%d)",
			c.InvitationDefaultTimeoutSeconds, c.InvitationMaxTimeoutSeconds)
	}
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// CORSOrigins splits the comma-separated allowed origins list.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
