package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/opsdesk/opsdesk-api/config"
	"github.com/opsdesk/opsdesk-api/internal/adapters/bcryptpw"
	"github.com/opsdesk/opsdesk-api/internal/adapters/oidc"
	redisadapter "github.com/opsdesk/opsdesk-api/internal/adapters/redis"
	"github.com/opsdesk/opsdesk-api/internal/adapters/sessioncookie"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

// AuthComponents bundles the authentication adapters built from config.
type AuthComponents struct {
	Codec  *sessioncookie.Codec
	Hasher bcryptpw.Hasher
	// Limiter is nil when Redis is unavailable or throttling is disabled.
	Limiter ports.LoginLimiter
	// SSOProvider is nil unless AUTH_MODE=sso.
	SSOProvider ports.SSOProvider
}

// BuildAuthComponents constructs the session codec, password hasher, login
// limiter, and (in SSO mode) the OIDC provider.
func BuildAuthComponents(
	cfg config.AuthConfig,
	redisClient *redis.Client,
	logger *slog.Logger,
) (AuthComponents, error) {
	codec, err := sessioncookie.New([]byte(cfg.SessionSecret))
	if err != nil {
		return AuthComponents{}, fmt.Errorf("build session codec: %w", err)
	}

	hasher := bcryptpw.New()
	if cfg.BcryptCost > 0 {
		hasher.Cost = cfg.BcryptCost
	}

	components := AuthComponents{
		Codec:  codec,
		Hasher: hasher,
	}

	if redisClient != nil && cfg.LimiterMaxAttempts > 0 {
		components.Limiter = redisadapter.NewLoginLimiter(redisClient, redisadapter.LoginLimiterConfig{
			MaxAttempts: cfg.LimiterMaxAttempts,
			Window:      cfg.LimiterWindow,
		})
	} else if logger != nil {
		logger.Info("login throttling disabled",
			"redis_connected", redisClient != nil,
			"max_attempts", cfg.LimiterMaxAttempts)
	}

	if cfg.Mode == config.AuthModeSSO {
		provider, perr := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.SSO.ClientID,
			ClientSecret: cfg.SSO.ClientSecret,
			RedirectURL:  cfg.SSO.RedirectURL,
			Scope:        cfg.SSO.Scope,
			DiscoveryURL: cfg.SSO.DiscoveryURL,
		})
		if perr != nil {
			return AuthComponents{}, fmt.Errorf("build sso provider: %w", perr)
		}
		components.SSOProvider = provider
	}

	return components, nil
}
