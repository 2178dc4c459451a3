package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/opsdesk/opsdesk-api/internal/core"
	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

// EmployeeServiceOptions groups dependencies for EmployeeService.
type EmployeeServiceOptions struct {
	Employees core.EmployeeRepository
	Roles     core.RoleRepository
	Hasher    ports.PasswordHasher
}

// EmployeeService manages staff accounts and their role assignment.
type EmployeeService struct {
	employees core.EmployeeRepository
	roles     core.RoleRepository
	hasher    ports.PasswordHasher
}

// NewEmployeeService constructs a new EmployeeService.
func NewEmployeeService(opts EmployeeServiceOptions) *EmployeeService {
	return &EmployeeService{
		employees: opts.Employees,
		roles:     opts.Roles,
		hasher:    opts.Hasher,
	}
}

// CreateEmployeeRequest carries the fields for registering an employee.
type CreateEmployeeRequest struct {
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Password    string  `json:"password"`
	RoleID      *string `json:"role_id,omitempty"`
}

// Validate checks the request fields.
func (r *CreateEmployeeRequest) Validate() error {
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return apperrors.ValidationField("email", "email is not a valid address")
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return apperrors.ValidationField("display_name", "display_name is required")
	}
	if len(r.Password) < 8 {
		return apperrors.ValidationField("password", "password must be at least 8 characters")
	}
	return nil
}

// Create registers a new active employee. The role, when given, must exist.
func (s *EmployeeService) Create(ctx context.Context, req *CreateEmployeeRequest) (identity.Employee, error) {
	if err := req.Validate(); err != nil {
		return identity.Employee{}, err
	}
	if req.RoleID != nil {
		if _, err := s.roles.GetByID(ctx, *req.RoleID); err != nil {
			if errors.Is(err, data.ErrRoleNotFound) || apperrors.IsNotFound(err) {
				return identity.Employee{}, apperrors.ValidationField("role_id", "role not found")
			}
			return identity.Employee{}, err
		}
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return identity.Employee{}, fmt.Errorf("hash password: %w", err)
	}
	return s.employees.Create(ctx, core.CreateEmployeeParams{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		RoleID:       req.RoleID,
	})
}

// UpdateEmployeeRequest carries the optional update fields. Nil fields are
// left unchanged; RoleID set with a nil inner pointer clears the role.
type UpdateEmployeeRequest struct {
	DisplayName *string  `json:"display_name,omitempty"`
	Password    *string  `json:"password,omitempty"`
	RoleID      **string `json:"-"`
	Active      *bool    `json:"active,omitempty"`
}

// Update applies the set fields to an employee.
func (s *EmployeeService) Update(ctx context.Context, id string, req *UpdateEmployeeRequest) (identity.Employee, error) {
	params := core.UpdateEmployeeParams{
		DisplayName: req.DisplayName,
		RoleID:      req.RoleID,
		Active:      req.Active,
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		return identity.Employee{}, apperrors.ValidationField("display_name", "display_name must not be empty")
	}
	if req.RoleID != nil && *req.RoleID != nil {
		if _, err := s.roles.GetByID(ctx, **req.RoleID); err != nil {
			if errors.Is(err, data.ErrRoleNotFound) || apperrors.IsNotFound(err) {
				return identity.Employee{}, apperrors.ValidationField("role_id", "role not found")
			}
			return identity.Employee{}, err
		}
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return identity.Employee{}, apperrors.ValidationField("password", "password must be at least 8 characters")
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return identity.Employee{}, fmt.Errorf("hash password: %w", err)
		}
		params.PasswordHash = &hash
	}
	return s.employees.Update(ctx, id, params)
}

// Get retrieves an employee regardless of the active flag.
func (s *EmployeeService) Get(ctx context.Context, id string) (identity.Employee, error) {
	return s.employees.FindByID(ctx, id, false)
}

// List retrieves employees, newest first.
func (s *EmployeeService) List(ctx context.Context, limit, offset int) ([]identity.Employee, error) {
	return s.employees.List(ctx, limit, offset)
}

// Roles returns the role catalog, most senior first.
func (s *EmployeeService) Roles(ctx context.Context) ([]identity.Role, error) {
	return s.roles.List(ctx)
}
