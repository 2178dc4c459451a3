package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/opsdesk-api/internal/data/pgxutil"
	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
)

// ErrMenuPermissionNotFound is returned when no row exists for a
// (menu key, employee) pair. For authorization this is the default-deny
// state, not an error condition.
var ErrMenuPermissionNotFound = errors.New("menu permission not found")

// MenuPermissionRepo provides database operations for menu permissions.
// It implements ports.MenuPermissionStore. Rows are unique on
// (menu_key, employee_id).
type MenuPermissionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMenuPermissionRepo creates a new MenuPermissionRepo.
func NewMenuPermissionRepo(db *sql.DB) *MenuPermissionRepo {
	return &MenuPermissionRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

type menuPermissionRow struct {
	MenuKey    string `db:"menu_key"`
	EmployeeID string `db:"employee_id"`
	Allowed    bool   `db:"allowed"`
}

func (r menuPermissionRow) toPermission() menu.Permission {
	return menu.Permission(r)
}

// Find retrieves the unique row for a (menu key, employee) pair.
func (r *MenuPermissionRepo) Find(ctx context.Context, employeeID, menuKey string) (menu.Permission, error) {
	var row menuPermissionRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT menu_key, employee_id, allowed
			FROM menu_permissions
			WHERE employee_id = $1 AND menu_key = $2`,
			employeeID, menuKey)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[menuPermissionRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return menu.Permission{}, ErrMenuPermissionNotFound
		}
		return menu.Permission{}, fmt.Errorf("failed to get menu permission: %w", err)
	}
	return row.toPermission(), nil
}

// Upsert inserts or replaces the row for (menu key, employee).
func (r *MenuPermissionRepo) Upsert(ctx context.Context, p menu.Permission) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO menu_permissions (menu_key, employee_id, allowed, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (menu_key, employee_id)
			DO UPDATE SET allowed = EXCLUDED.allowed, updated_at = EXCLUDED.updated_at`,
			p.MenuKey, p.EmployeeID, p.Allowed, r.timeProvider.Now().UTC())
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert menu permission: %w", err)
	}
	return nil
}

// ListAll returns every stored permission row.
func (r *MenuPermissionRepo) ListAll(ctx context.Context) ([]menu.Permission, error) {
	return r.list(ctx, `
		SELECT menu_key, employee_id, allowed
		FROM menu_permissions
		ORDER BY menu_key, employee_id`)
}

// ListByMenuKey returns all rows for a menu key.
func (r *MenuPermissionRepo) ListByMenuKey(ctx context.Context, menuKey string) ([]menu.Permission, error) {
	return r.list(ctx, `
		SELECT menu_key, employee_id, allowed
		FROM menu_permissions
		WHERE menu_key = $1
		ORDER BY employee_id`, menuKey)
}

// ListByEmployee returns all rows for an employee.
func (r *MenuPermissionRepo) ListByEmployee(ctx context.Context, employeeID string) ([]menu.Permission, error) {
	return r.list(ctx, `
		SELECT menu_key, employee_id, allowed
		FROM menu_permissions
		WHERE employee_id = $1
		ORDER BY menu_key`, employeeID)
}

func (r *MenuPermissionRepo) list(ctx context.Context, query string, args ...any) ([]menu.Permission, error) {
	var rowsOut []menuPermissionRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[menuPermissionRow])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list menu permissions: %w", err)
	}

	res := make([]menu.Permission, len(rowsOut))
	for i, row := range rowsOut {
		res[i] = row.toPermission()
	}
	return res, nil
}
