package httpx

import (
	"context"

	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
)

// identityKey is an unexported context key type to avoid collisions across
// packages. Centralized here so all handlers/middleware use the same key.
type identityKey struct{}

// SetIdentityInContext returns a child context carrying the resolved
// identity. If id is nil, the original ctx is returned unchanged.
func SetIdentityInContext(ctx context.Context, id identity.Identity) context.Context {
	if id == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the resolved identity and a boolean
// indicating presence. Identity is computed once per request by the
// WithIdentity middleware; handlers never re-read cookies.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	if id, ok := ctx.Value(identityKey{}).(identity.Identity); ok && id != nil {
		return id, true
	}
	return nil, false
}

// EmployeeFromContext returns the current employee, if the request is an
// employee session.
func EmployeeFromContext(ctx context.Context) (identity.Employee, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return identity.Employee{}, false
	}
	e, ok := id.(identity.Employee)
	return e, ok
}

// ClientFromContext returns the current client, if the request is a client
// session.
func ClientFromContext(ctx context.Context) (identity.Client, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return identity.Client{}, false
	}
	c, ok := id.(identity.Client)
	return c, ok
}
