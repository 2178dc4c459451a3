package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/opsdesk/opsdesk-api/internal/core"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

// ClientServiceOptions groups dependencies for ClientService.
type ClientServiceOptions struct {
	Clients core.ClientRepository
	Hasher  ports.PasswordHasher
}

// ClientService manages external business accounts: self-service signup
// into pending status, and staff-driven status transitions.
type ClientService struct {
	clients core.ClientRepository
	hasher  ports.PasswordHasher
}

// NewClientService constructs a new ClientService.
func NewClientService(opts ClientServiceOptions) *ClientService {
	return &ClientService{clients: opts.Clients, hasher: opts.Hasher}
}

// SignupRequest carries the self-service registration fields.
type SignupRequest struct {
	LoginHandle string `json:"login_handle"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// Validate checks the request fields.
func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.LoginHandle) == "" {
		return apperrors.ValidationField("login_handle", "login_handle is required")
	}
	if strings.ContainsAny(r.LoginHandle, " \t@") {
		return apperrors.ValidationField("login_handle", "login_handle must not contain spaces or '@'")
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return apperrors.ValidationField("display_name", "display_name is required")
	}
	if len(r.Password) < 8 {
		return apperrors.ValidationField("password", "password must be at least 8 characters")
	}
	return nil
}

// Signup registers a new client account in pending status. The account
// cannot log in until an employee approves it.
func (s *ClientService) Signup(ctx context.Context, req *SignupRequest) (identity.Client, error) {
	if err := req.Validate(); err != nil {
		return identity.Client{}, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return identity.Client{}, fmt.Errorf("hash password: %w", err)
	}
	return s.clients.Create(ctx, core.CreateClientParams{
		LoginHandle:  req.LoginHandle,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
	})
}

// Get retrieves a client regardless of status.
func (s *ClientService) Get(ctx context.Context, id string) (identity.Client, error) {
	return s.clients.FindByID(ctx, id, false)
}

// List retrieves clients, optionally filtered by status.
func (s *ClientService) List(ctx context.Context, status *identity.ClientStatus, limit, offset int) ([]identity.Client, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.ValidationField("status", "unknown client status")
	}
	return s.clients.List(ctx, status, limit, offset)
}

// SetStatus moves a client to the given status. Any known status is a
// legal target; approval history is not tracked.
func (s *ClientService) SetStatus(ctx context.Context, id string, status identity.ClientStatus) (identity.Client, error) {
	if !status.Valid() {
		return identity.Client{}, apperrors.ValidationField("status", "unknown client status")
	}
	return s.clients.UpdateStatus(ctx, id, status)
}

// Approve is the common transition out of pending.
func (s *ClientService) Approve(ctx context.Context, id string) (identity.Client, error) {
	return s.SetStatus(ctx, id, identity.ClientApproved)
}
