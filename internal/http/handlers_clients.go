// Package httpx provides the HTTP surface of the opsdesk API: JSON
// endpoints under /api, the SSO browser flow, and the guarded view
// descriptors the frontend renders from.
package httpx

import (
	"errors"
	"net/http"

	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

// ClientHandlers provides HTTP handlers for client account operations.
type ClientHandlers struct {
	Svc *service.ClientService
}

const maxClientListLimit = 100

// Signup handles POST /api/clients/signup. Public: anyone may register,
// but the account stays pending until an employee approves it.
func (h *ClientHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	client, err := h.Svc.Signup(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, client)
}

// List handles GET /api/clients?status=<status>.
func (h *ClientHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxClientListLimit)

	var status *identity.ClientStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := identity.ClientStatus(raw)
		status = &s
	}

	clients, err := h.Svc.List(r.Context(), status, limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"clients": clients,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetByID handles GET /api/clients/{id}.
func (h *ClientHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("client id is required")})
		return
	}

	client, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, client)
}

type clientStatusRequest struct {
	Status identity.ClientStatus `json:"status"`
}

// SetStatus handles POST /api/clients/{id}/status.
func (h *ClientHandlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("client id is required")})
		return
	}

	var req clientStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	client, err := h.Svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, client)
}

// Approve handles POST /api/clients/{id}/approve, the common transition
// out of pending.
func (h *ClientHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("client id is required")})
		return
	}

	client, err := h.Svc.Approve(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, client)
}
