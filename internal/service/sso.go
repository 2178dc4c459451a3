package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsdesk/opsdesk-api/internal/data"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

// SSOServiceOptions groups dependencies for SSOService.
type SSOServiceOptions struct {
	Provider  ports.SSOProvider
	Employees ports.EmployeeStore
	Sessions  *SessionService
}

// SSOService runs the employee single-sign-on flow. The IdP only asserts
// who the caller is; an active employee record under the asserted email is
// still required before a session is issued. Clients never authenticate
// through SSO.
type SSOService struct {
	provider  ports.SSOProvider
	employees ports.EmployeeStore
	sessions  *SessionService
}

// NewSSOService constructs a new SSOService.
func NewSSOService(opts SSOServiceOptions) *SSOService {
	return &SSOService{
		provider:  opts.Provider,
		employees: opts.Employees,
		sessions:  opts.Sessions,
	}
}

// BeginLoginResult contains the result of beginning an SSO flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates the flow and returns the provider auth URL with
// state and nonce for the caller to pin in short-lived cookies.
func (s *SSOService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin sso flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an SSO flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the authorization code, resolves the asserted
// email to an active employee and issues an employee session. An unknown
// or inactive employee fails with ErrInvalidCredentials even though the
// IdP accepted the login.
func (s *SSOService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*IssuedSession, error) {
	if in.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if in.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if in.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	asserted, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  in.Code,
		State: in.State,
		Nonce: in.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	e, err := s.employees.FindByEmail(ctx, asserted.Email, true)
	if err != nil {
		if errors.Is(err, data.ErrEmployeeNotFound) || apperrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "look up sso employee")
	}

	issued, err := s.sessions.CreateEmployeeSession(ctx, e.ID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return issued, nil
}
