package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

// MenuPermissionServiceOptions groups dependencies for MenuPermissionService.
type MenuPermissionServiceOptions struct {
	Permissions ports.MenuPermissionStore
	Logger      *slog.Logger
}

// MenuPermissionService is the admin surface over stored menu grants.
type MenuPermissionService struct {
	permissions ports.MenuPermissionStore
	logger      *slog.Logger
}

// NewMenuPermissionService constructs a new MenuPermissionService.
func NewMenuPermissionService(opts MenuPermissionServiceOptions) *MenuPermissionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuPermissionService{
		permissions: opts.Permissions,
		logger:      logger.With("component", "menu_permissions"),
	}
}

// ListAll returns every stored grant.
func (s *MenuPermissionService) ListAll(ctx context.Context) ([]menu.Permission, error) {
	return s.permissions.ListAll(ctx)
}

// ListByMenuKey returns the grants for one menu key.
func (s *MenuPermissionService) ListByMenuKey(ctx context.Context, menuKey string) ([]menu.Permission, error) {
	if strings.TrimSpace(menuKey) == "" {
		return nil, apperrors.ValidationField("menu_key", "menu_key is required")
	}
	return s.permissions.ListByMenuKey(ctx, menuKey)
}

// ListByEmployee returns the grants for one employee.
func (s *MenuPermissionService) ListByEmployee(ctx context.Context, employeeID string) ([]menu.Permission, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, apperrors.ValidationField("employee_id", "employee_id is required")
	}
	return s.permissions.ListByEmployee(ctx, employeeID)
}

// BulkUpsertResult reports the outcome of a bulk save.
type BulkUpsertResult struct {
	Applied int      `json:"applied"`
	Failed  []string `json:"failed,omitempty"`
}

// bulkUpsertConcurrency bounds parallel writes during a bulk save.
const bulkUpsertConcurrency = 4

// BulkUpsert saves each grant independently. Rows are not wrapped in a
// transaction: a failure partway leaves the other rows applied, and the
// result lists the (menu key, employee) pairs that did not stick.
func (s *MenuPermissionService) BulkUpsert(ctx context.Context, grants []menu.Permission) (BulkUpsertResult, error) {
	var res BulkUpsertResult
	for _, g := range grants {
		if strings.TrimSpace(g.MenuKey) == "" || strings.TrimSpace(g.EmployeeID) == "" {
			return res, apperrors.Validation("every grant needs menu_key and employee_id")
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(bulkUpsertConcurrency)
	for _, grant := range grants {
		g.Go(func() error {
			if err := s.permissions.Upsert(ctx, grant); err != nil {
				s.logger.ErrorContext(ctx, "upsert menu permission failed",
					"menu_key", grant.MenuKey, "employee_id", grant.EmployeeID, "err", err)
				mu.Lock()
				res.Failed = append(res.Failed, fmt.Sprintf("%s/%s", grant.MenuKey, grant.EmployeeID))
				mu.Unlock()
				return nil
			}
			mu.Lock()
			res.Applied++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // individual failures are collected, never returned

	sort.Strings(res.Failed)
	return res, nil
}
