// Package devseed populates a development database with a usable set of
// accounts: an administrator, a staff member with a handful of menu
// grants, and an approved client with a contract. It runs only in dev
// mode and is idempotent — existing rows are left alone.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsdesk/opsdesk-api/internal/adapters/bcryptpw"
	"github.com/opsdesk/opsdesk-api/internal/core"
	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
	"github.com/opsdesk/opsdesk-api/internal/domain/model"
)

// Password every seeded account logs in with. Dev only.
const seedPassword = "opsdesk-dev"

var staffMenuKeys = []string{"client-directory", "contract-list", "operation-board"}

// Run seeds the development accounts. Safe to call on every startup.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	employees := data.NewEmployeeRepo(db)
	clients := data.NewClientRepo(db)
	roles := data.NewRoleRepo(db)
	permissions := data.NewMenuPermissionRepo(db)
	contracts := data.NewContractRepo(db)

	hasher := bcryptpw.New()
	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	adminRoleID, staffRoleID, err := roleIDs(ctx, roles)
	if err != nil {
		return err
	}

	if _, err := seedEmployee(ctx, employees, core.CreateEmployeeParams{
		Email:        "admin@opsdesk.local",
		DisplayName:  "Dev Admin",
		PasswordHash: hash,
		RoleID:       &adminRoleID,
	}); err != nil {
		return err
	}

	staff, err := seedEmployee(ctx, employees, core.CreateEmployeeParams{
		Email:        "staff@opsdesk.local",
		DisplayName:  "Dev Staff",
		PasswordHash: hash,
		RoleID:       &staffRoleID,
	})
	if err != nil {
		return err
	}
	for _, key := range staffMenuKeys {
		p := menu.Permission{MenuKey: key, EmployeeID: staff.ID, Allowed: true}
		if err := permissions.Upsert(ctx, p); err != nil {
			return fmt.Errorf("grant %s: %w", key, err)
		}
	}

	client, created, err := seedClient(ctx, clients, core.CreateClientParams{
		LoginHandle:  "acme",
		DisplayName:  "Acme Fabrication",
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	if created {
		if client, err = clients.UpdateStatus(ctx, client.ID, identity.ClientApproved); err != nil {
			return fmt.Errorf("approve seed client: %w", err)
		}
		if _, err := contracts.Create(ctx, &model.CreateContractRequest{
			ClientID:    client.ID,
			Title:       "Quarterly maintenance",
			AmountCents: 1_250_00,
			StartsOn:    time.Now().UTC().Truncate(24 * time.Hour),
		}); err != nil {
			return fmt.Errorf("seed contract: %w", err)
		}
	}

	logger.Info("development data seeded",
		"admin", "admin@opsdesk.local",
		"staff", "staff@opsdesk.local",
		"client_handle", "acme")
	return nil
}

func roleIDs(ctx context.Context, roles *data.RoleRepo) (adminID, staffID string, err error) {
	all, err := roles.List(ctx)
	if err != nil {
		return "", "", fmt.Errorf("list roles: %w", err)
	}
	for _, r := range all {
		if r.Level == identity.AdminRoleLevel && adminID == "" {
			adminID = r.ID
		} else if r.Level > identity.AdminRoleLevel && staffID == "" {
			staffID = r.ID
		}
	}
	if adminID == "" || staffID == "" {
		return "", "", errors.New("roles missing; run migrations before seeding")
	}
	return adminID, staffID, nil
}

func seedEmployee(ctx context.Context, repo *data.EmployeeRepo, p core.CreateEmployeeParams) (identity.Employee, error) {
	e, err := repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, data.ErrEmployeeEmailExists) {
			return repo.FindByEmail(ctx, p.Email, false)
		}
		return identity.Employee{}, fmt.Errorf("seed employee %s: %w", p.Email, err)
	}
	return e, nil
}

func seedClient(ctx context.Context, repo *data.ClientRepo, p core.CreateClientParams) (identity.Client, bool, error) {
	c, err := repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, data.ErrClientHandleExists) {
			return identity.Client{}, false, nil
		}
		return identity.Client{}, false, fmt.Errorf("seed client %s: %w", p.LoginHandle, err)
	}
	return c, true, nil
}
