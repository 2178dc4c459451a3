package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/opsdesk-api/internal/core"
	"github.com/opsdesk/opsdesk-api/internal/data/pgxutil"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
)

var (
	// ErrClientNotFound is returned when a client is not found or fails its approval gate.
	ErrClientNotFound = errors.New("client not found")
	// ErrClientHandleExists is returned on a duplicate login handle.
	ErrClientHandleExists = errors.New("client login handle already exists")
)

// ClientRepo provides database operations for external business accounts.
// It implements ports.ClientStore.
type ClientRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewClientRepo creates a new ClientRepo with the real time provider.
func NewClientRepo(db *sql.DB) *ClientRepo {
	return &ClientRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

type clientRow struct {
	ID          string `db:"id"`
	LoginHandle string `db:"login_handle"`
	DisplayName string `db:"display_name"`
	Status      string `db:"status"`
}

func (r clientRow) toClient() identity.Client {
	return identity.Client{
		ID:          r.ID,
		LoginHandle: r.LoginHandle,
		DisplayName: r.DisplayName,
		Status:      identity.ClientStatus(r.Status),
	}
}

type clientCredRow struct {
	clientRow
	PasswordHash string `db:"password_hash"`
}

// FindByID retrieves a client by ID. With mustBeApproved, any status other
// than approved reads as not found.
func (r *ClientRepo) FindByID(ctx context.Context, id string, mustBeApproved bool) (identity.Client, error) {
	query := `SELECT id, login_handle, display_name, status FROM clients WHERE id = $1`
	if mustBeApproved {
		query += ` AND status = 'approved'`
	}

	var row clientRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[clientRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.Client{}, ErrClientNotFound
		}
		return identity.Client{}, fmt.Errorf("failed to get client: %w", err)
	}
	return row.toClient(), nil
}

// CredentialsByHandle returns the approved client and stored password hash
// for login verification.
func (r *ClientRepo) CredentialsByHandle(ctx context.Context, handle string) (identity.ClientCredentials, error) {
	var row clientCredRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, login_handle, display_name, status, password_hash
			FROM clients
			WHERE lower(login_handle) = lower($1) AND status = 'approved'`,
			strings.TrimSpace(handle))
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[clientCredRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.ClientCredentials{}, ErrClientNotFound
		}
		return identity.ClientCredentials{}, fmt.Errorf("failed to get client credentials: %w", err)
	}
	return identity.ClientCredentials{
		Client:       row.toClient(),
		PasswordHash: row.PasswordHash,
	}, nil
}

// Create inserts a new client in pending status.
func (r *ClientRepo) Create(ctx context.Context, p core.CreateClientParams) (identity.Client, error) {
	id := uuid.NewString()
	now := r.timeProvider.Now().UTC()

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO clients (id, login_handle, display_name, password_hash, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 'pending', $5, $5)`,
			id, strings.TrimSpace(strings.ToLower(p.LoginHandle)), strings.TrimSpace(p.DisplayName),
			p.PasswordHash, now,
		)
		return err
	})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return identity.Client{}, ErrClientHandleExists
		}
		return identity.Client{}, fmt.Errorf("failed to create client: %w", mapped)
	}
	return r.FindByID(ctx, id, false)
}

// UpdateStatus transitions a client to the given status.
func (r *ClientRepo) UpdateStatus(ctx context.Context, id string, status identity.ClientStatus) (identity.Client, error) {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE clients SET status = $1, updated_at = $2 WHERE id = $3`,
			string(status), r.timeProvider.Now().UTC(), id)
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
			return identity.Client{}, ErrClientNotFound
		}
		return identity.Client{}, fmt.Errorf("failed to update client status: %w", apperrors.MapDBError(err))
	}
	return r.FindByID(ctx, id, false)
}

// List retrieves clients, optionally filtered by status, newest first.
func (r *ClientRepo) List(ctx context.Context, status *identity.ClientStatus, limit, offset int) ([]identity.Client, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, login_handle, display_name, status FROM clients`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var rowsOut []clientRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[clientRow])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	res := make([]identity.Client, len(rowsOut))
	for i, row := range rowsOut {
		res[i] = row.toClient()
	}
	return res, nil
}
