package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

// PermissionDeniedRedirect is where denied employees land, with a
// machine-readable error indicator instead of a hard error page.
const PermissionDeniedRedirect = "/dashboard?error=permission_denied"

// MenuAuthServiceOptions groups dependencies for MenuAuthService.
type MenuAuthServiceOptions struct {
	Permissions ports.MenuPermissionStore
	KeyMap      *menu.KeyMap
	Logger      *slog.Logger
}

// MenuAuthService decides whether an identity may reach a guarded view
// path, combining the path→menu-key map with stored per-employee grants.
type MenuAuthService struct {
	permissions ports.MenuPermissionStore
	keymap      *menu.KeyMap
	logger      *slog.Logger
}

// NewMenuAuthService constructs a new MenuAuthService.
func NewMenuAuthService(opts MenuAuthServiceOptions) *MenuAuthService {
	keymap := opts.KeyMap
	if keymap == nil {
		keymap = menu.DefaultKeyMap()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuAuthService{
		permissions: opts.Permissions,
		keymap:      keymap,
		logger:      logger.With("component", "menuauth"),
	}
}

// KeyMap exposes the path→menu-key table, for the admin listing surface.
func (s *MenuAuthService) KeyMap() *menu.KeyMap { return s.keymap }

// CheckPermission reports whether the employee may use the menu key.
// Role level 1 bypasses the stored grants unconditionally. A missing row
// denies, and so does a store outage: permission checks fail closed.
func (s *MenuAuthService) CheckPermission(ctx context.Context, e identity.Employee, menuKey string) bool {
	if e.IsAdmin() {
		return true
	}
	p, err := s.permissions.Find(ctx, e.ID, menuKey)
	if err != nil {
		if !errors.Is(err, data.ErrMenuPermissionNotFound) && !apperrors.IsNotFound(err) {
			s.logger.ErrorContext(ctx, "menu permission lookup failed",
				"employee_id", e.ID, "menu_key", menuKey, "err", err)
		}
		return false
	}
	return p.Allowed
}

// Decision is the outcome of an access check for a view path.
type Decision struct {
	Allowed bool
	// RedirectTo is the path to send a denied caller to. Empty only when
	// Allowed is true.
	RedirectTo string
}

// Authorize runs the access state machine for a view path:
// no session redirects to login with the intended path preserved, a client
// on an employee-only path goes back to the portal, an admin always
// passes, and everyone else needs the mapped menu permission. Paths with
// no mapping require no check.
func (s *MenuAuthService) Authorize(ctx context.Context, id identity.Identity, path string) Decision {
	if id == nil {
		return Decision{RedirectTo: "/login?redirect_uri=" + url.QueryEscape(path)}
	}

	if !s.keymap.RequiresCheck(path) {
		return Decision{Allowed: true}
	}

	e, ok := id.(identity.Employee)
	if !ok {
		return Decision{RedirectTo: id.HomePath()}
	}

	key, ok := s.keymap.KeyFor(path)
	if !ok {
		return Decision{Allowed: true}
	}
	if s.CheckPermission(ctx, e, key) {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: PermissionDeniedRedirect}
}
