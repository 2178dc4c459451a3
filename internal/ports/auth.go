package ports

// Package ports defines interfaces (hexagonal ports) for identity and
// authorization behavior. Implementations live in internal/adapters and
// internal/data; orchestration in internal/service.

import (
	"context"
	"time"

	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
)

// EmployeeStore reads employee records and their role join.
// Lookups with mustBeActive=true treat an inactive record the same as a
// missing one, so callers cannot distinguish the two.
type EmployeeStore interface {
	FindByID(ctx context.Context, id string, mustBeActive bool) (identity.Employee, error)
	FindByEmail(ctx context.Context, email string, mustBeActive bool) (identity.Employee, error)
	// CredentialsByEmail returns the active employee and stored password
	// hash for login verification.
	CredentialsByEmail(ctx context.Context, email string) (identity.EmployeeCredentials, error)
}

// ClientStore reads client records.
type ClientStore interface {
	FindByID(ctx context.Context, id string, mustBeApproved bool) (identity.Client, error)
	// CredentialsByHandle returns the approved client and stored password
	// hash for login verification.
	CredentialsByHandle(ctx context.Context, handle string) (identity.ClientCredentials, error)
}

// MenuPermissionStore persists (menu key, employee) grants, unique on the
// pair.
type MenuPermissionStore interface {
	Find(ctx context.Context, employeeID, menuKey string) (menu.Permission, error)
	Upsert(ctx context.Context, p menu.Permission) error
	ListAll(ctx context.Context) ([]menu.Permission, error)
	ListByMenuKey(ctx context.Context, menuKey string) ([]menu.Permission, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]menu.Permission, error)
}

// PasswordHasher is the one-way salted hash primitive. Both methods are
// pure and have no side effects.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// SessionCodec serializes a session snapshot to and from a signed cookie
// value. Decode fails on tampered or malformed values; callers treat any
// decode failure as an absent session.
type SessionCodec interface {
	Encode(v any) (string, error)
	Decode(value string, dst any) error
}

// LoginLimiter throttles login attempts per identifier. Implementations
// decide windowing; a nil limiter means no throttling.
type LoginLimiter interface {
	// Allow reports whether another attempt may proceed.
	Allow(ctx context.Context, identifier string) (bool, error)
	// RecordFailure counts a failed attempt.
	RecordFailure(ctx context.Context, identifier string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, identifier string) error
}

// BeginInput carries inputs for initiating an SSO flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the SSO code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOIdentity is the provider-asserted principal returned by an IdP.
// It is only a claim of who the caller is; the employee record in the
// backing store still gates whether a session may be issued.
type SSOIdentity struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// SSOProvider initiates and completes an authentication flow against an
// IdP. Used only when the employee SSO mode is enabled.
type SSOProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the asserted identity.
	Exchange(ctx context.Context, in ExchangeInput) (SSOIdentity, error)
}
