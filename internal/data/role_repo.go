package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/opsdesk-api/internal/data/pgxutil"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
)

// ErrRoleNotFound is returned when a role is not found.
var ErrRoleNotFound = errors.New("role not found")

// RoleRepo provides read access to the role catalog.
type RoleRepo struct {
	DB *sql.DB
}

// NewRoleRepo creates a new RoleRepo.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{DB: db}
}

type roleRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Level int    `db:"level"`
}

// List returns all roles ordered by level, most senior first.
func (r *RoleRepo) List(ctx context.Context) ([]identity.Role, error) {
	var rowsOut []roleRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id, name, level FROM roles ORDER BY level ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[roleRow])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	res := make([]identity.Role, len(rowsOut))
	for i, row := range rowsOut {
		res[i] = identity.Role(row)
	}
	return res, nil
}

// GetByID retrieves a role by ID.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (identity.Role, error) {
	var row roleRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id, name, level FROM roles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[roleRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.Role{}, ErrRoleNotFound
		}
		return identity.Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return identity.Role(row), nil
}
