// Package core defines the repository contracts the service layer depends
// on. The data layer provides the implementations; keeping the interfaces
// here lets services be tested against in-memory doubles.
package core

import (
	"context"

	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	"github.com/opsdesk/opsdesk-api/internal/domain/model"
)

// CreateEmployeeParams carries the fields for inserting a new employee.
type CreateEmployeeParams struct {
	Email        string
	DisplayName  string
	PasswordHash string
	RoleID       *string
}

// UpdateEmployeeParams carries the optional fields for updating an employee.
// Nil fields are left unchanged. RoleID uses a double pointer so callers can
// distinguish "leave alone" (nil) from "clear the role" (pointer to nil).
type UpdateEmployeeParams struct {
	DisplayName  *string
	PasswordHash *string
	RoleID       **string
	Active       *bool
}

// EmployeeRepository persists employees and their role join.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id string, mustBeActive bool) (identity.Employee, error)
	FindByEmail(ctx context.Context, email string, mustBeActive bool) (identity.Employee, error)
	CredentialsByEmail(ctx context.Context, email string) (identity.EmployeeCredentials, error)
	Create(ctx context.Context, p CreateEmployeeParams) (identity.Employee, error)
	Update(ctx context.Context, id string, p UpdateEmployeeParams) (identity.Employee, error)
	List(ctx context.Context, limit, offset int) ([]identity.Employee, error)
}

// CreateClientParams carries the fields for registering a client account.
type CreateClientParams struct {
	LoginHandle  string
	DisplayName  string
	PasswordHash string
}

// ClientRepository persists client accounts.
type ClientRepository interface {
	FindByID(ctx context.Context, id string, mustBeApproved bool) (identity.Client, error)
	CredentialsByHandle(ctx context.Context, handle string) (identity.ClientCredentials, error)
	Create(ctx context.Context, p CreateClientParams) (identity.Client, error)
	UpdateStatus(ctx context.Context, id string, status identity.ClientStatus) (identity.Client, error)
	List(ctx context.Context, status *identity.ClientStatus, limit, offset int) ([]identity.Client, error)
}

// RoleRepository reads the role catalog.
type RoleRepository interface {
	List(ctx context.Context) ([]identity.Role, error)
	GetByID(ctx context.Context, id string) (identity.Role, error)
}

// ContractRepository persists contracts.
type ContractRepository interface {
	GetByID(ctx context.Context, id string) (model.Contract, error)
	Create(ctx context.Context, req *model.CreateContractRequest) (model.Contract, error)
	Update(ctx context.Context, id string, req *model.UpdateContractRequest) (model.Contract, error)
	List(ctx context.Context, clientID string, limit, offset int) ([]model.Contract, error)
	Delete(ctx context.Context, id string) error
}
