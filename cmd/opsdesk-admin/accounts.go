package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/opsdesk/opsdesk-api/internal/adapters/bcryptpw"
	"github.com/opsdesk/opsdesk-api/internal/bootstrap"
	"github.com/opsdesk/opsdesk-api/internal/core"
	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
)

const defaultCommandTimeout = 2 * time.Minute

func connectDB(cmdCtx *commandContext) (*sql.DB, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return db, nil
}

type seedAdminOptions struct {
	Email       string
	Password    string
	DisplayName string
}

func parseSeedAdminFlags(args []string) (seedAdminOptions, error) {
	fs := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts seedAdminOptions
	fs.StringVar(&opts.Email, "email", "", "Email address for the admin account (required)")
	fs.StringVar(&opts.Password, "password", "", "Password for the admin account (required, min 8 chars)")
	fs.StringVar(&opts.DisplayName, "name", "Administrator", "Display name for the admin account")

	if err := fs.Parse(args); err != nil {
		return seedAdminOptions{}, fmt.Errorf("parse seed-admin flags: %w", err)
	}
	if opts.Email == "" {
		return seedAdminOptions{}, errors.New("seed-admin: -email is required")
	}
	if len(opts.Password) < 8 {
		return seedAdminOptions{}, errors.New("seed-admin: -password is required and must be at least 8 characters")
	}
	return opts, nil
}

func runSeedAdmin(cmdCtx *commandContext, args []string) error {
	opts, err := parseSeedAdminFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	adminRole, err := findAdminRole(ctx, data.NewRoleRepo(db))
	if err != nil {
		return err
	}

	hasher := bcryptpw.New()
	if cmdCtx.Config.Auth.BcryptCost > 0 {
		hasher.Cost = cmdCtx.Config.Auth.BcryptCost
	}
	hash, err := hasher.Hash(opts.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	employee, err := data.NewEmployeeRepo(db).Create(ctx, core.CreateEmployeeParams{
		Email:        opts.Email,
		DisplayName:  opts.DisplayName,
		PasswordHash: hash,
		RoleID:       &adminRole.ID,
	})
	if err != nil {
		if errors.Is(err, data.ErrEmployeeEmailExists) {
			return fmt.Errorf("seed-admin: an employee with email %q already exists", opts.Email)
		}
		return fmt.Errorf("create admin employee: %w", err)
	}

	cmdCtx.Logger.Info("admin employee created",
		"id", employee.ID,
		"email", employee.Email,
		"role", adminRole.Name)
	return nil
}

func findAdminRole(ctx context.Context, roles *data.RoleRepo) (identity.Role, error) {
	all, err := roles.List(ctx)
	if err != nil {
		return identity.Role{}, fmt.Errorf("list roles: %w", err)
	}
	for _, r := range all {
		if r.Level == identity.AdminRoleLevel {
			return r, nil
		}
	}
	return identity.Role{}, errors.New("no admin role found; run migrations first")
}

type grantMenuOptions struct {
	EmployeeID string
	MenuKey    string
	Revoke     bool
}

func parseGrantMenuFlags(args []string) (grantMenuOptions, error) {
	fs := flag.NewFlagSet("grant-menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts grantMenuOptions
	fs.StringVar(&opts.EmployeeID, "employee", "", "Employee ID to grant the key to (required)")
	fs.StringVar(&opts.MenuKey, "key", "", "Menu key to grant (required)")
	fs.BoolVar(&opts.Revoke, "revoke", false, "Store an explicit deny instead of a grant")

	if err := fs.Parse(args); err != nil {
		return grantMenuOptions{}, fmt.Errorf("parse grant-menu flags: %w", err)
	}
	if opts.EmployeeID == "" || opts.MenuKey == "" {
		return grantMenuOptions{}, errors.New("grant-menu: -employee and -key are required")
	}
	return opts, nil
}

func runGrantMenu(cmdCtx *commandContext, args []string) error {
	opts, err := parseGrantMenuFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	// Verify the employee exists before writing a grant for it.
	employee, err := data.NewEmployeeRepo(db).FindByID(ctx, opts.EmployeeID, false)
	if err != nil {
		if errors.Is(err, data.ErrEmployeeNotFound) {
			return fmt.Errorf("grant-menu: employee %q not found", opts.EmployeeID)
		}
		return fmt.Errorf("find employee: %w", err)
	}

	perm := menu.Permission{
		MenuKey:    opts.MenuKey,
		EmployeeID: employee.ID,
		Allowed:    !opts.Revoke,
	}
	if err := data.NewMenuPermissionRepo(db).Upsert(ctx, perm); err != nil {
		return fmt.Errorf("upsert menu permission: %w", err)
	}

	cmdCtx.Logger.Info("menu permission stored",
		"employee_id", employee.ID,
		"employee_email", employee.Email,
		"menu_key", perm.MenuKey,
		"allowed", perm.Allowed)
	return nil
}

type listMenuOptions struct {
	EmployeeID string
	MenuKey    string
}

func parseListMenuFlags(args []string) (listMenuOptions, error) {
	fs := flag.NewFlagSet("list-menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listMenuOptions
	fs.StringVar(&opts.EmployeeID, "employee", "", "Filter by employee ID")
	fs.StringVar(&opts.MenuKey, "key", "", "Filter by menu key")

	if err := fs.Parse(args); err != nil {
		return listMenuOptions{}, fmt.Errorf("parse list-menu flags: %w", err)
	}
	if opts.EmployeeID != "" && opts.MenuKey != "" {
		return listMenuOptions{}, errors.New("list-menu: use at most one of -employee or -key")
	}
	return opts, nil
}

func runListMenu(cmdCtx *commandContext, args []string) error {
	opts, err := parseListMenuFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	repo := data.NewMenuPermissionRepo(db)
	var perms []menu.Permission
	switch {
	case opts.EmployeeID != "":
		perms, err = repo.ListByEmployee(ctx, opts.EmployeeID)
	case opts.MenuKey != "":
		perms, err = repo.ListByMenuKey(ctx, opts.MenuKey)
	default:
		perms, err = repo.ListAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("list menu permissions: %w", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "MENU KEY\tEMPLOYEE ID\tALLOWED\n"); err != nil {
		return err
	}
	for _, p := range perms {
		if err := writef(tw, "%s\t%s\t%t\n", p.MenuKey, p.EmployeeID, p.Allowed); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return writef(os.Stdout, "\n%d permission(s)\n", len(perms))
}

func runListKeys(_ *commandContext, _ []string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "PATH\tMENU KEY\n"); err != nil {
		return err
	}
	for _, entry := range menu.DefaultKeyMap().Entries() {
		if err := writef(tw, "%s\t%s\n", entry.Path, entry.Key); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
