package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsdesk/opsdesk-api/internal/service"
)

// EmployeeHandlers provides HTTP handlers for staff account administration.
type EmployeeHandlers struct {
	Svc *service.EmployeeService
}

const maxEmployeeListLimit = 100

// Create handles POST /api/employees.
func (h *EmployeeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEmployeeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	employee, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, employee)
}

// List handles GET /api/employees.
func (h *EmployeeHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxEmployeeListLimit)

	employees, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"employees": employees,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles GET /api/employees/{id}.
func (h *EmployeeHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("employee id is required")})
		return
	}

	employee, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, employee)
}

// updateEmployeeBody maps the wire shape onto the service request. role_id
// is tri-state: absent leaves the role alone, null clears it, a string
// assigns it.
type updateEmployeeBody struct {
	DisplayName *string          `json:"display_name"`
	Password    *string          `json:"password"`
	RoleID      *json.RawMessage `json:"role_id"`
	Active      *bool            `json:"active"`
}

func (b *updateEmployeeBody) toRequest() (*service.UpdateEmployeeRequest, error) {
	req := &service.UpdateEmployeeRequest{
		DisplayName: b.DisplayName,
		Password:    b.Password,
		Active:      b.Active,
	}
	if b.RoleID != nil {
		var roleID *string
		if err := json.Unmarshal(*b.RoleID, &roleID); err != nil {
			return nil, errors.New("role_id must be a string or null")
		}
		req.RoleID = &roleID
	}
	return req, nil
}

// Update handles PATCH /api/employees/{id}.
func (h *EmployeeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("employee id is required")})
		return
	}

	var body updateEmployeeBody
	if !DecodeJSON(w, r, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
		return
	}

	employee, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, employee)
}

// Roles handles GET /api/roles, the role catalog for assignment dropdowns.
func (h *EmployeeHandlers) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Svc.Roles(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"roles": roles})
}
