// Package config provides production-grade configuration management for the
// clnp liveness service. Configuration is loaded once at startup from the
// environment and then shared across goroutines as a read-only value, making
// it inherently thread-safe after initialization.
package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all tunable parameters for the liveness service. Fields cover
// network binding, challenge lifetime, and the secrets used to sign tokens
// and hash client IPs.
type Config struct {
	// Host is the interface the HTTP server binds to.
	Host string

	// Port is the TCP port the HTTP server listens on.
	Port string

	// StandaloneTTL is how long an issued standalone challenge remains
	// usable before it is evicted unused. Embed-mode challenges get 2x
	// this value per spec.
	StandaloneTTL time.Duration

	// EmbedTTL is the embed-mode challenge lifetime (2x StandaloneTTL).
	EmbedTTL time.Duration

	// Secret is the HMAC key used to sign tokens, receipts, and IP hashes.
	// If CLNP_SECRET is unset at load time, a random 32-byte ephemeral key
	// is generated for the lifetime of the process and a warning is logged
	// by the caller.
	Secret []byte

	// SecretIsEphemeral is true when Secret was generated rather than
	// supplied, so callers know to log a warning.
	SecretIsEphemeral bool

	// AdminToken authenticates /api/admin/* routes. Empty means admin
	// routes are disabled (503 admin_not_configured).
	AdminToken string

	// DataDir is the directory holding sessions.jsonl.
	DataDir string

	// ScorerConfigPath optionally points at a YAML file overriding the
	// compiled-in scoring weights/thresholds. Empty means use defaults.
	ScorerConfigPath string
}

const (
	defaultPort          = "8080"
	defaultHost          = "0.0.0.0"
	defaultStandaloneTTL = 3 * time.Minute
)

// Load reads configuration from the process environment, applying the
// defaults documented in spec.md §6. It never fails on missing optional
// variables; it only fails if CHALLENGE_TTL_MS is present but not a valid
// non-negative integer.
func Load() (*Config, error) {
	cfg := &Config{
		Host:             envOr("HOST", defaultHost),
		Port:             envOr("PORT", defaultPort),
		StandaloneTTL:    defaultStandaloneTTL,
		AdminToken:       os.Getenv("CLNP_ADMIN_TOKEN"),
		DataDir:          envOr("CLNP_DATA_DIR", "."),
		ScorerConfigPath: os.Getenv("CLNP_SCORER_CONFIG"),
	}

	if raw := os.Getenv("CHALLENGE_TTL_MS"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("config: CHALLENGE_TTL_MS must be a non-negative integer, got %q", raw)
		}
		cfg.StandaloneTTL = time.Duration(ms) * time.Millisecond
	}
	cfg.EmbedTTL = cfg.StandaloneTTL * 2

	if secret := os.Getenv("CLNP_SECRET"); secret != "" {
		cfg.Secret = []byte(secret)
	} else {
		ephemeral := make([]byte, 32)
		if _, err := rand.Read(ephemeral); err != nil {
			return nil, fmt.Errorf("config: generate ephemeral secret: %w", err)
		}
		cfg.Secret = ephemeral
		cfg.SecretIsEphemeral = true
	}

	return cfg, nil
}

// Addr returns the host:port pair suitable for http.Server.Addr.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
