// Package mocks provides mock implementations for testing the opsdesk services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockEmployeeRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(employee, nil)
package mocks

// Generate mock for EmployeeRepository interface from internal/core package.
// This creates MockEmployeeRepository with methods for all EmployeeRepository interface methods:
// FindByID, FindByEmail, CredentialsByEmail, Create, Update, List
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=employee_repository_mock.go github.com/opsdesk/opsdesk-api/internal/core EmployeeRepository

// Generate mock for ClientRepository interface from internal/core package.
// This creates MockClientRepository with methods for all ClientRepository interface methods:
// FindByID, CredentialsByHandle, Create, UpdateStatus, List
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=client_repository_mock.go github.com/opsdesk/opsdesk-api/internal/core ClientRepository

// Generate mock for RoleRepository interface from internal/core package.
// This creates MockRoleRepository with methods for all RoleRepository interface methods:
// List, GetByID
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=role_repository_mock.go github.com/opsdesk/opsdesk-api/internal/core RoleRepository

// Generate mock for ContractRepository interface from internal/core package.
// This creates MockContractRepository with methods for all ContractRepository interface methods:
// GetByID, Create, Update, List, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=contract_repository_mock.go github.com/opsdesk/opsdesk-api/internal/core ContractRepository
