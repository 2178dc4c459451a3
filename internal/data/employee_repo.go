package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"

	"github.com/opsdesk/opsdesk-api/internal/core"
	"github.com/opsdesk/opsdesk-api/internal/data/pgxutil"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
)

var (
	// ErrEmployeeNotFound is returned when an employee is not found or fails its active gate.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrEmployeeEmailExists is returned on a duplicate employee email.
	ErrEmployeeEmailExists = errors.New("employee email already exists")
)

// EmployeeRepo provides database operations for employees and their role join.
// It implements ports.EmployeeStore. The role join is normalized into
// identity.Role at this boundary; callers never see the raw row shape.
type EmployeeRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEmployeeRepo creates a new EmployeeRepo with the real time provider.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// employeeRow is the raw join shape returned by employee queries.
type employeeRow struct {
	ID          string  `db:"id"`
	Email       string  `db:"email"`
	DisplayName string  `db:"display_name"`
	Active      bool    `db:"active"`
	RoleID      *string `db:"role_id"`
	RoleName    *string `db:"role_name"`
	RoleLevel   *int    `db:"role_level"`
}

func (r employeeRow) toEmployee() identity.Employee {
	e := identity.Employee{
		ID:          r.ID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Active:      r.Active,
	}
	if r.RoleID != nil && r.RoleName != nil && r.RoleLevel != nil {
		e.Role = &identity.Role{ID: *r.RoleID, Name: *r.RoleName, Level: *r.RoleLevel}
	}
	return e
}

type employeeCredRow struct {
	employeeRow
	PasswordHash string `db:"password_hash"`
}

const employeeSelect = `
	SELECT e.id, e.email, e.display_name, e.active,
	       r.id AS role_id, r.name AS role_name, r.level AS role_level
	FROM employees e
	LEFT JOIN roles r ON r.id = e.role_id`

const employeeCredSelect = `
	SELECT e.id, e.email, e.display_name, e.active, e.password_hash,
	       r.id AS role_id, r.name AS role_name, r.level AS role_level
	FROM employees e
	LEFT JOIN roles r ON r.id = e.role_id`

// FindByID retrieves an employee by ID. With mustBeActive, an inactive
// record reads as not found.
func (r *EmployeeRepo) FindByID(ctx context.Context, id string, mustBeActive bool) (identity.Employee, error) {
	query := employeeSelect + ` WHERE e.id = $1`
	if mustBeActive {
		query += ` AND e.active = true`
	}
	return r.findOne(ctx, query, id)
}

// FindByEmail retrieves an employee by email (case-insensitive).
func (r *EmployeeRepo) FindByEmail(ctx context.Context, email string, mustBeActive bool) (identity.Employee, error) {
	query := employeeSelect + ` WHERE lower(e.email) = lower($1)`
	if mustBeActive {
		query += ` AND e.active = true`
	}
	return r.findOne(ctx, query, strings.TrimSpace(email))
}

// CredentialsByEmail returns the active employee and stored password hash
// for login verification.
func (r *EmployeeRepo) CredentialsByEmail(ctx context.Context, email string) (identity.EmployeeCredentials, error) {
	query := employeeCredSelect + ` WHERE lower(e.email) = lower($1) AND e.active = true`

	var row employeeCredRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, strings.TrimSpace(email))
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[employeeCredRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.EmployeeCredentials{}, ErrEmployeeNotFound
		}
		return identity.EmployeeCredentials{}, fmt.Errorf("failed to get employee credentials: %w", err)
	}
	return identity.EmployeeCredentials{
		Employee:     row.toEmployee(),
		PasswordHash: row.PasswordHash,
	}, nil
}

// Create inserts a new employee, active by default.
func (r *EmployeeRepo) Create(ctx context.Context, p core.CreateEmployeeParams) (identity.Employee, error) {
	id := uuid.NewString()
	now := r.timeProvider.Now().UTC()

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO employees (id, email, display_name, password_hash, role_id, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, $6, $6)`,
			id, strings.TrimSpace(strings.ToLower(p.Email)), strings.TrimSpace(p.DisplayName),
			p.PasswordHash, p.RoleID, now,
		)
		return err
	})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return identity.Employee{}, ErrEmployeeEmailExists
		}
		return identity.Employee{}, fmt.Errorf("failed to create employee: %w", mapped)
	}
	return r.FindByID(ctx, id, false)
}

// Update applies the set fields and returns the updated employee.
func (r *EmployeeRepo) Update(ctx context.Context, id string, p core.UpdateEmployeeParams) (identity.Employee, error) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if p.DisplayName != nil {
		setParts = append(setParts, fmt.Sprintf("display_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*p.DisplayName))
	}
	if p.PasswordHash != nil {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", nextIdx()))
		args = append(args, *p.PasswordHash)
	}
	if p.RoleID != nil {
		setParts = append(setParts, fmt.Sprintf("role_id = $%d", nextIdx()))
		args = append(args, *p.RoleID)
	}
	if p.Active != nil {
		setParts = append(setParts, fmt.Sprintf("active = $%d", nextIdx()))
		args = append(args, *p.Active)
	}

	if len(setParts) == 0 {
		return r.FindByID(ctx, id, false)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE employees SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.Employee{}, ErrEmployeeNotFound
		}
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return identity.Employee{}, ErrEmployeeEmailExists
		}
		return identity.Employee{}, fmt.Errorf("failed to update employee: %w", mapped)
	}
	return r.FindByID(ctx, id, false)
}

// List retrieves employees ordered by creation time, newest first.
func (r *EmployeeRepo) List(ctx context.Context, limit, offset int) ([]identity.Employee, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []employeeRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, employeeSelect+`
			ORDER BY e.created_at DESC
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[employeeRow])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	res := make([]identity.Employee, len(rowsOut))
	for i, row := range rowsOut {
		res[i] = row.toEmployee()
	}
	return res, nil
}

func (r *EmployeeRepo) findOne(ctx context.Context, query string, args ...any) (identity.Employee, error) {
	var row employeeRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[employeeRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.Employee{}, ErrEmployeeNotFound
		}
		return identity.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return row.toEmployee(), nil
}
