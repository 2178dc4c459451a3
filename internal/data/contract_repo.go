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

	"github.com/opsdesk/opsdesk-api/internal/data/pgxutil"
	"github.com/opsdesk/opsdesk-api/internal/domain/model"
)

// ErrContractNotFound is returned when a contract is not found.
var ErrContractNotFound = errors.New("contract not found")

// ContractRepo provides database operations for contracts.
type ContractRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewContractRepo creates a new ContractRepo with the real time provider.
func NewContractRepo(db *sql.DB) *ContractRepo {
	return &ContractRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

const contractSelect = `
	SELECT id, client_id, title, status, amount_cents, starts_on, ends_on, created_at, updated_at
	FROM contracts`

// GetByID retrieves a contract by ID.
func (r *ContractRepo) GetByID(ctx context.Context, id string) (model.Contract, error) {
	var contract model.Contract
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, contractSelect+` WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		contract, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Contract])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Contract{}, ErrContractNotFound
		}
		return model.Contract{}, fmt.Errorf("failed to get contract: %w", err)
	}
	return contract, nil
}

// Create inserts a new contract in draft status.
func (r *ContractRepo) Create(ctx context.Context, req *model.CreateContractRequest) (model.Contract, error) {
	id := uuid.NewString()
	now := r.timeProvider.Now().UTC()

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO contracts (id, client_id, title, status, amount_cents, starts_on, ends_on, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, req.ClientID, strings.TrimSpace(req.Title), model.ContractDraft,
			req.AmountCents, req.StartsOn, req.EndsOn, now,
		)
		return err
	})
	if err != nil {
		return model.Contract{}, fmt.Errorf("failed to create contract: %w", apperrors.MapDBError(err))
	}
	return r.GetByID(ctx, id)
}

// Update applies the set fields and returns the updated contract.
func (r *ContractRepo) Update(ctx context.Context, id string, req *model.UpdateContractRequest) (model.Contract, error) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.AmountCents != nil {
		setParts = append(setParts, fmt.Sprintf("amount_cents = $%d", nextIdx()))
		args = append(args, *req.AmountCents)
	}
	if req.EndsOn != nil {
		setParts = append(setParts, fmt.Sprintf("ends_on = $%d", nextIdx()))
		args = append(args, *req.EndsOn)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE contracts SET " + strings.Join(setParts, ", ") +
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
			return model.Contract{}, ErrContractNotFound
		}
		return model.Contract{}, fmt.Errorf("failed to update contract: %w", apperrors.MapDBError(err))
	}
	return r.GetByID(ctx, id)
}

// List retrieves contracts, newest first, optionally filtered by client.
func (r *ContractRepo) List(ctx context.Context, clientID string, limit, offset int) ([]model.Contract, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := contractSelect
	args := []any{}
	if clientID != "" {
		query += ` WHERE client_id = $1`
		args = append(args, clientID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var contracts []model.Contract
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		contracts, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Contract])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	if contracts == nil {
		contracts = []model.Contract{}
	}
	return contracts, nil
}

// Delete removes a contract by ID.
func (r *ContractRepo) Delete(ctx context.Context, id string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
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
			return ErrContractNotFound
		}
		return fmt.Errorf("failed to delete contract: %w", apperrors.MapDBError(err))
	}
	return nil
}
