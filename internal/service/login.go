package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

var (
	// ErrInvalidCredentials is returned when the identifier/password pair
	// matches no loginable account. Callers must not reveal which half
	// failed, or which principal kind was tried.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyAttempts is returned when the login limiter trips.
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// LoginServiceOptions groups dependencies for LoginService.
type LoginServiceOptions struct {
	Employees ports.EmployeeStore
	Clients   ports.ClientStore
	Hasher    ports.PasswordHasher
	Sessions  *SessionService
	// Limiter is optional; nil disables throttling.
	Limiter ports.LoginLimiter
	Logger  *slog.Logger
}

// LoginService resolves a single identifier/password pair against both
// principal kinds: employee by email first, then client by login handle.
type LoginService struct {
	employees ports.EmployeeStore
	clients   ports.ClientStore
	hasher    ports.PasswordHasher
	sessions  *SessionService
	limiter   ports.LoginLimiter
	logger    *slog.Logger
}

// NewLoginService constructs a new LoginService.
func NewLoginService(opts LoginServiceOptions) *LoginService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginService{
		employees: opts.Employees,
		clients:   opts.Clients,
		hasher:    opts.Hasher,
		sessions:  opts.Sessions,
		limiter:   opts.Limiter,
		logger:    logger.With("component", "login"),
	}
}

// LoginResult contains the issued session for a successful login.
type LoginResult struct {
	Identity identity.Identity
	// SessionValue is the signed cookie value; the slot it belongs to
	// follows from Identity's kind.
	SessionValue string
}

// Login verifies the identifier/password pair and issues a session.
//
// The identifier is tried as an employee email first; only when no active
// employee exists under it does the client handle lookup run. A matching
// account with a wrong password never falls through to the other kind.
func (s *LoginService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.allow(ctx, identifier); err != nil {
		return nil, err
	}

	ec, err := s.employees.CredentialsByEmail(ctx, identifier)
	switch {
	case err == nil:
		if !s.hasher.Verify(password, ec.PasswordHash) {
			return nil, s.fail(ctx, identifier)
		}
		issued, issueErr := s.sessions.CreateEmployeeSession(ctx, ec.ID)
		if issueErr != nil {
			if errors.Is(issueErr, ErrNoSession) {
				return nil, s.fail(ctx, identifier)
			}
			return nil, issueErr
		}
		s.reset(ctx, identifier)
		return &LoginResult{Identity: issued.Identity, SessionValue: issued.Value}, nil
	case errors.Is(err, data.ErrEmployeeNotFound) || apperrors.IsNotFound(err):
		// fall through to the client handle lookup
	default:
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "look up employee credentials")
	}

	cc, err := s.clients.CredentialsByHandle(ctx, identifier)
	switch {
	case err == nil:
		if !s.hasher.Verify(password, cc.PasswordHash) {
			return nil, s.fail(ctx, identifier)
		}
		issued, issueErr := s.sessions.CreateClientSession(ctx, cc.ID)
		if issueErr != nil {
			if errors.Is(issueErr, ErrNoSession) {
				return nil, s.fail(ctx, identifier)
			}
			return nil, issueErr
		}
		s.reset(ctx, identifier)
		return &LoginResult{Identity: issued.Identity, SessionValue: issued.Value}, nil
	case errors.Is(err, data.ErrClientNotFound) || apperrors.IsNotFound(err):
		return nil, s.fail(ctx, identifier)
	default:
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "look up client credentials")
	}
}

// allow consults the limiter. Limiter outages fail open: losing redis must
// not lock everyone out of login.
func (s *LoginService) allow(ctx context.Context, identifier string) error {
	if s.limiter == nil {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, identifier)
	if err != nil {
		s.logger.WarnContext(ctx, "login limiter unavailable", "err", err)
		return nil
	}
	if !ok {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *LoginService) fail(ctx context.Context, identifier string) error {
	if s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, identifier); err != nil {
			s.logger.WarnContext(ctx, "record login failure", "err", err)
		}
	}
	return ErrInvalidCredentials
}

func (s *LoginService) reset(ctx context.Context, identifier string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, identifier); err != nil {
		s.logger.WarnContext(ctx, "reset login limiter", "err", err)
	}
}
