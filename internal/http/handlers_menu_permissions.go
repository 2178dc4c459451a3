package httpx

import (
	"errors"
	"net/http"

	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

// MenuPermissionHandlers provides the administrator surface over stored
// menu grants. All routes sit behind RequireAdmin.
type MenuPermissionHandlers struct {
	Svc      *service.MenuPermissionService
	Resolver *service.MenuAuthService
}

// ListAll handles GET /api/menu-permissions.
func (h *MenuPermissionHandlers) ListAll(w http.ResponseWriter, r *http.Request) {
	grants, err := h.Svc.ListAll(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"permissions": grants})
}

// ListByMenuKey handles GET /api/menu-permissions/key/{key}.
func (h *MenuPermissionHandlers) ListByMenuKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("menu key is required")})
		return
	}

	grants, err := h.Svc.ListByMenuKey(r.Context(), key)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"permissions": grants})
}

// ListByEmployee handles GET /api/menu-permissions/employee/{id}.
func (h *MenuPermissionHandlers) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("employee id is required")})
		return
	}

	grants, err := h.Svc.ListByEmployee(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"permissions": grants})
}

type bulkUpsertRequest struct {
	Permissions []menu.Permission `json:"permissions"`
}

// BulkUpsert handles PUT /api/menu-permissions. Rows are saved
// independently; the response reports how many stuck and which pairs
// failed, since there is no all-or-nothing guarantee.
func (h *MenuPermissionHandlers) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	var req bulkUpsertRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Permissions) == 0 {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: errors.New("permissions must not be empty")})
		return
	}

	result, err := h.Svc.BulkUpsert(r.Context(), req.Permissions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	code := http.StatusOK
	if len(result.Failed) > 0 {
		code = http.StatusMultiStatus
	}
	WriteJSON(w, code, result)
}

// MenuKeys handles GET /api/menu-permissions/keys, listing the static
// path→menu-key table so the admin UI can render grant matrices.
func (h *MenuPermissionHandlers) MenuKeys(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"entries": h.Resolver.KeyMap().Entries()})
}
