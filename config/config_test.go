package config

import (
	"os"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAuthModeUnmarshal(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    AuthMode
		expectError bool
	}{
		{name: "password", input: "password", expected: AuthModePassword},
		{name: "sso", input: "sso", expected: AuthModeSSO},
		{name: "case insensitive", input: "SSO", expected: AuthModeSSO},
		{name: "unknown mode", input: "ldap", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if mode != tt.expected {
				t.Errorf("got %q, want %q", mode, tt.expected)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Auth.Mode != AuthModePassword {
		t.Errorf("default auth mode = %q, want password", cfg.Auth.Mode)
	}
	if cfg.Auth.SessionTTL != 168*time.Hour {
		t.Errorf("default session TTL = %v, want 168h", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.LimiterMaxAttempts != 10 {
		t.Errorf("default limiter attempts = %d, want 10", cfg.Auth.LimiterMaxAttempts)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("default http addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis should default to enabled")
	}
	if cfg.IsDev {
		t.Error("dev mode should default to off")
	}
}

func TestParseRequiresSessionSecret(t *testing.T) {
	// t.Setenv registers the restore; unset to simulate a missing variable.
	t.Setenv("SESSION_SECRET", "x")
	os.Unsetenv("SESSION_SECRET")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Error("expected error when SESSION_SECRET is unset")
	}
}

func TestSanitizeGuardrails(t *testing.T) {
	cfg := AppConfig{
		Auth: AuthConfig{
			SessionTTL:         -time.Hour,
			LimiterMaxAttempts: -5,
			LimiterWindow:      0,
		},
	}
	cfg.Sanitize()

	if cfg.Auth.SessionTTL != 168*time.Hour {
		t.Errorf("sanitized TTL = %v, want 168h", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.LimiterMaxAttempts != 0 {
		t.Errorf("sanitized limiter attempts = %d, want 0", cfg.Auth.LimiterMaxAttempts)
	}
	if cfg.Auth.LimiterWindow != 15*time.Minute {
		t.Errorf("sanitized limiter window = %v, want 15m", cfg.Auth.LimiterWindow)
	}
}

func TestDetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Error("NODE_ENV=development should enable dev mode")
	}
}
