package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

// DefaultSessionTTL is the cookie lifetime when none is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrNoSession is returned by session creation when the backing identity
// is missing or fails its active/approved gate. Inactive and missing are
// deliberately indistinguishable.
var ErrNoSession = errors.New("no session")

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Codec     ports.SessionCodec
	Employees ports.EmployeeStore
	Clients   ports.ClientStore
	TTL       time.Duration
	Logger    *slog.Logger
	// Now overrides the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

// SessionService issues and validates the two signed session cookie slots.
// The cookie payload is only a lookup hint: every validation goes back to
// the store, so deactivating an employee or suspending a client takes
// effect on the next request.
type SessionService struct {
	codec     ports.SessionCodec
	employees ports.EmployeeStore
	clients   ports.ClientStore
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		codec:     opts.Codec,
		employees: opts.Employees,
		clients:   opts.Clients,
		ttl:       ttl,
		logger:    logger.With("component", "session"),
		now:       now,
	}
}

// TTL returns the configured session lifetime, for cookie Max-Age.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// IssuedSession pairs a freshly-loaded identity with its signed cookie
// value. The cookie slot it belongs to follows from the identity's kind.
type IssuedSession struct {
	Identity identity.Identity
	Value    string
}

// CreateEmployeeSession loads the employee by id requiring active=true and
// issues a signed employee session. Returns ErrNoSession when the employee
// is missing or inactive.
func (s *SessionService) CreateEmployeeSession(ctx context.Context, employeeID string) (*IssuedSession, error) {
	e, err := s.employees.FindByID(ctx, employeeID, true)
	if err != nil {
		if errors.Is(err, data.ErrEmployeeNotFound) || apperrors.IsNotFound(err) {
			return nil, ErrNoSession
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load employee for session")
	}
	value, err := s.codec.Encode(identity.NewEmployeeSession(e, s.now().UTC(), s.ttl))
	if err != nil {
		return nil, fmt.Errorf("encode employee session: %w", err)
	}
	return &IssuedSession{Identity: e, Value: value}, nil
}

// CreateClientSession loads the client by id requiring status=approved and
// issues a signed client session. Returns ErrNoSession when the client is
// missing or not approved.
func (s *SessionService) CreateClientSession(ctx context.Context, clientID string) (*IssuedSession, error) {
	c, err := s.clients.FindByID(ctx, clientID, true)
	if err != nil {
		if errors.Is(err, data.ErrClientNotFound) || apperrors.IsNotFound(err) {
			return nil, ErrNoSession
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load client for session")
	}
	value, err := s.codec.Encode(identity.NewClientSession(c, s.now().UTC(), s.ttl))
	if err != nil {
		return nil, fmt.Errorf("encode client session: %w", err)
	}
	return &IssuedSession{Identity: c, Value: value}, nil
}

// CurrentInput carries the raw cookie values of the two session slots.
// Empty string means the cookie is absent.
type CurrentInput struct {
	EmployeeCookie string
	ClientCookie   string
}

// CurrentResult reports the resolved identity, if any, plus which cookie
// slots must be cleared on the response.
type CurrentResult struct {
	// Identity is nil when no valid session exists.
	Identity identity.Identity
	// Employee holds the revalidated employee when Identity is an employee.
	Employee *identity.Employee
	// Client holds the revalidated client when Identity is a client.
	Client *identity.Client

	ClearEmployee bool
	ClearClient   bool
}

// Current resolves the caller's identity from the cookie slots.
//
// The employee slot wins: when an employee cookie is present it is the
// only slot considered; if it is stale or malformed, both slots are
// cleared rather than falling through to the client slot. Every failure
// mode, including a store outage, degrades to "no session" — validation
// fails closed and never surfaces an error to the caller. Store outages
// are logged.
func (s *SessionService) Current(ctx context.Context, in CurrentInput) CurrentResult {
	if in.EmployeeCookie != "" {
		return s.currentEmployee(ctx, in)
	}
	if in.ClientCookie != "" {
		return s.currentClient(ctx, in)
	}
	return CurrentResult{}
}

func (s *SessionService) currentEmployee(ctx context.Context, in CurrentInput) CurrentResult {
	clearAll := CurrentResult{ClearEmployee: true, ClearClient: in.ClientCookie != ""}

	var snap identity.EmployeeSession
	if err := s.codec.Decode(in.EmployeeCookie, &snap); err != nil {
		return clearAll
	}
	if !s.now().Before(snap.ExpiresAt) {
		return clearAll
	}

	e, err := s.employees.FindByID(ctx, snap.EmployeeID, true)
	if err != nil {
		if !errors.Is(err, data.ErrEmployeeNotFound) && !apperrors.IsNotFound(err) {
			s.logger.ErrorContext(ctx, "employee session validation failed", "err", err)
		}
		return clearAll
	}
	return CurrentResult{Identity: e, Employee: &e}
}

func (s *SessionService) currentClient(ctx context.Context, in CurrentInput) CurrentResult {
	clear := CurrentResult{ClearClient: true}

	var snap identity.ClientSession
	if err := s.codec.Decode(in.ClientCookie, &snap); err != nil {
		return clear
	}
	if !s.now().Before(snap.ExpiresAt) {
		return clear
	}

	c, err := s.clients.FindByID(ctx, snap.ClientID, true)
	if err != nil {
		if !errors.Is(err, data.ErrClientNotFound) && !apperrors.IsNotFound(err) {
			s.logger.ErrorContext(ctx, "client session validation failed", "err", err)
		}
		return clear
	}
	return CurrentResult{Identity: c, Client: &c}
}
