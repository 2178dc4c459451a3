package model

import (
	"strings"
	"time"

	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
)

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractDraft      ContractStatus = "draft"
	ContractActive     ContractStatus = "active"
	ContractCompleted  ContractStatus = "completed"
	ContractTerminated ContractStatus = "terminated"
)

// Valid reports whether s is one of the known contract statuses.
func (s ContractStatus) Valid() bool {
	switch s {
	case ContractDraft, ContractActive, ContractCompleted, ContractTerminated:
		return true
	}
	return false
}

// Contract is a managed-service agreement with a client.
type Contract struct {
	ID          string         `db:"id"           json:"id"`
	ClientID    string         `db:"client_id"    json:"client_id"`
	Title       string         `db:"title"        json:"title"`
	Status      ContractStatus `db:"status"       json:"status"`
	AmountCents int64          `db:"amount_cents" json:"amount_cents"`
	StartsOn    time.Time      `db:"starts_on"    json:"starts_on"`
	EndsOn      *time.Time     `db:"ends_on"      json:"ends_on,omitempty"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt   *time.Time     `db:"updated_at"   json:"updated_at,omitempty"`
}

// CreateContractRequest carries the fields for registering a contract.
type CreateContractRequest struct {
	ClientID    string     `json:"client_id"`
	Title       string     `json:"title"`
	AmountCents int64      `json:"amount_cents"`
	StartsOn    time.Time  `json:"starts_on"`
	EndsOn      *time.Time `json:"ends_on,omitempty"`
}

// Validate checks the request fields.
func (r *CreateContractRequest) Validate() error {
	if strings.TrimSpace(r.ClientID) == "" {
		return apperrors.ValidationField("client_id", "client_id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.ValidationField("title", "title is required")
	}
	if r.AmountCents < 0 {
		return apperrors.ValidationField("amount_cents", "amount_cents must not be negative")
	}
	if r.StartsOn.IsZero() {
		return apperrors.ValidationField("starts_on", "starts_on is required")
	}
	if r.EndsOn != nil && r.EndsOn.Before(r.StartsOn) {
		return apperrors.ValidationField("ends_on", "ends_on must not precede starts_on")
	}
	return nil
}

// UpdateContractRequest carries optional fields for updating a contract.
// Nil fields are left unchanged.
type UpdateContractRequest struct {
	Title       *string         `json:"title,omitempty"`
	Status      *ContractStatus `json:"status,omitempty"`
	AmountCents *int64          `json:"amount_cents,omitempty"`
	EndsOn      *time.Time      `json:"ends_on,omitempty"`
}

// Validate checks the request fields.
func (r *UpdateContractRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return apperrors.ValidationField("title", "title must not be empty")
	}
	if r.Status != nil && !r.Status.Valid() {
		return apperrors.ValidationField("status", "unknown contract status")
	}
	if r.AmountCents != nil && *r.AmountCents < 0 {
		return apperrors.ValidationField("amount_cents", "amount_cents must not be negative")
	}
	return nil
}
