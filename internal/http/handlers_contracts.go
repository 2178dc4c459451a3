package httpx

import (
	"errors"
	"net/http"

	"github.com/opsdesk/opsdesk-api/internal/domain/model"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

// ContractHandlers provides HTTP handlers for contract operations.
type ContractHandlers struct {
	Svc *service.ContractService
}

const maxContractListLimit = 100

// Create handles POST /api/contracts.
func (h *ContractHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateContractRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	contract, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, contract)
}

// List handles GET /api/contracts?client_id=<id>.
func (h *ContractHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxContractListLimit)
	clientID := r.URL.Query().Get("client_id")

	contracts, err := h.Svc.List(r.Context(), clientID, limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"contracts": contracts,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles GET /api/contracts/{id}.
func (h *ContractHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("contract id is required")})
		return
	}

	contract, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, contract)
}

// Update handles PATCH /api/contracts/{id}.
func (h *ContractHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("contract id is required")})
		return
	}

	var req model.UpdateContractRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	contract, err := h.Svc.Update(r.Context(), id, &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, contract)
}

// Delete handles DELETE /api/contracts/{id}.
func (h *ContractHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("contract id is required")})
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
