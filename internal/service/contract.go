package service

import (
	"context"
	"errors"

	"github.com/opsdesk/opsdesk-api/internal/core"
	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/domain/model"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
)

// ContractServiceOptions groups dependencies for ContractService.
type ContractServiceOptions struct {
	Contracts core.ContractRepository
	Clients   core.ClientRepository
}

// ContractService orchestrates contract CRUD. Contracts attach to clients
// in any status; a suspended client keeps its history.
type ContractService struct {
	contracts core.ContractRepository
	clients   core.ClientRepository
}

// NewContractService constructs a new ContractService.
func NewContractService(opts ContractServiceOptions) *ContractService {
	return &ContractService{contracts: opts.Contracts, clients: opts.Clients}
}

// Create registers a contract for an existing client.
func (s *ContractService) Create(ctx context.Context, req *model.CreateContractRequest) (model.Contract, error) {
	if err := req.Validate(); err != nil {
		return model.Contract{}, err
	}
	if _, err := s.clients.FindByID(ctx, req.ClientID, false); err != nil {
		if errors.Is(err, data.ErrClientNotFound) || apperrors.IsNotFound(err) {
			return model.Contract{}, apperrors.ValidationField("client_id", "client not found")
		}
		return model.Contract{}, err
	}
	return s.contracts.Create(ctx, req)
}

// Update applies the set fields to a contract.
func (s *ContractService) Update(ctx context.Context, id string, req *model.UpdateContractRequest) (model.Contract, error) {
	if err := req.Validate(); err != nil {
		return model.Contract{}, err
	}
	return s.contracts.Update(ctx, id, req)
}

// Get retrieves a contract by id.
func (s *ContractService) Get(ctx context.Context, id string) (model.Contract, error) {
	return s.contracts.GetByID(ctx, id)
}

// List retrieves contracts, optionally scoped to one client.
func (s *ContractService) List(ctx context.Context, clientID string, limit, offset int) ([]model.Contract, error) {
	return s.contracts.List(ctx, clientID, limit, offset)
}

// Delete removes a contract.
func (s *ContractService) Delete(ctx context.Context, id string) error {
	return s.contracts.Delete(ctx, id)
}
