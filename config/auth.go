package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents how employees authenticate.
type AuthMode string

const (
	// AuthModePassword verifies credentials against stored bcrypt hashes.
	AuthModePassword AuthMode = "password"
	// AuthModeSSO additionally enables the OIDC login flow for employees.
	// Clients always use password login.
	AuthModeSSO AuthMode = "sso"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "sso":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, sso)", v)
	}
}

// SSOConfig contains OIDC configuration, used when Mode=sso.
type SSOConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/sso/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// AuthConfig groups session and login configuration.
type AuthConfig struct {
	// Mode determines which employee authentication flow is available.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// SessionSecret signs the session cookies. Required; there is no safe
	// default.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// SessionTTL is the lifetime of both session cookie slots.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// BcryptCost overrides the password hashing cost. 0 uses the library
	// default.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"0"`

	// Login limiter window. MaxAttempts of 0 disables throttling.
	LimiterMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	LimiterWindow      time.Duration `env:"LOGIN_WINDOW"       envDefault:"15m"`

	// SSO configuration (used when Mode=sso).
	SSO SSOConfig `envPrefix:"SSO_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 168 * time.Hour
	}
	if a.LimiterMaxAttempts < 0 {
		a.LimiterMaxAttempts = 0
	}
	if a.LimiterWindow <= 0 {
		a.LimiterWindow = 15 * time.Minute
	}
}
