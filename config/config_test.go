package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/glyphwatch/clnp/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HOST", "PORT", "CHALLENGE_TTL_MS", "CLNP_SECRET", "CLNP_ADMIN_TOKEN", "CLNP_DATA_DIR"} {
		os.Unsetenv(k)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StandaloneTTL != 3*time.Minute {
		t.Errorf("StandaloneTTL = %v, want 3m", cfg.StandaloneTTL)
	}
	if cfg.EmbedTTL != 6*time.Minute {
		t.Errorf("EmbedTTL = %v, want 6m", cfg.EmbedTTL)
	}
	if !cfg.SecretIsEphemeral || len(cfg.Secret) != 32 {
		t.Errorf("expected a generated 32-byte ephemeral secret")
	}
}

func TestLoad_TTLOverride(t *testing.T) {
	os.Setenv("CHALLENGE_TTL_MS", "5000")
	defer os.Unsetenv("CHALLENGE_TTL_MS")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StandaloneTTL != 5*time.Second {
		t.Errorf("StandaloneTTL = %v, want 5s", cfg.StandaloneTTL)
	}
	if cfg.EmbedTTL != 10*time.Second {
		t.Errorf("EmbedTTL = %v, want 10s", cfg.EmbedTTL)
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	os.Setenv("CHALLENGE_TTL_MS", "not-a-number")
	defer os.Unsetenv("CHALLENGE_TTL_MS")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected an error for malformed CHALLENGE_TTL_MS")
	}
}

func TestLoad_ExplicitSecret(t *testing.T) {
	os.Setenv("CLNP_SECRET", "test-secret-value")
	defer os.Unsetenv("CLNP_SECRET")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SecretIsEphemeral {
		t.Error("SecretIsEphemeral should be false when CLNP_SECRET is set")
	}
	if string(cfg.Secret) != "test-secret-value" {
		t.Errorf("Secret = %q, want test-secret-value", cfg.Secret)
	}
}
