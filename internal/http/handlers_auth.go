package httpx

import (
	"log/slog"
	"net/http"

	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

// AuthHandlers provides HTTP handlers for password login, logout and
// session introspection.
type AuthHandlers struct {
	Login    *service.LoginService
	Sessions *service.SessionService
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Success  bool           `json:"success"`
	Kind     identity.Kind  `json:"kind"`
	HomePath string         `json:"home_path"`
	Identity map[string]any `json:"identity"`
}

// HandleLogin handles POST /api/auth/login. A single identifier field is
// tried as an employee email first, then as a client login handle. On
// success the matching cookie slot is set and the caller is told where to
// navigate.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Login.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	switch id := result.Identity.(type) {
	case identity.Employee:
		setSessionCookie(w, r, EmployeeSessionCookie, result.SessionValue, h.Sessions.TTL())
		WriteJSON(w, http.StatusOK, loginResponse{
			Success:  true,
			Kind:     id.IdentityKind(),
			HomePath: id.HomePath(),
			Identity: employeeView(id),
		})
	case identity.Client:
		setSessionCookie(w, r, ClientSessionCookie, result.SessionValue, h.Sessions.TTL())
		WriteJSON(w, http.StatusOK, loginResponse{
			Success:  true,
			Kind:     id.IdentityKind(),
			HomePath: id.HomePath(),
			Identity: clientView(id),
		})
	}
}

// HandleLogout handles POST /api/auth/logout, clearing both cookie slots
// unconditionally.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, EmployeeSessionCookie)
	clearCookie(w, r, ClientSessionCookie)
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleLogoutClient handles POST /api/auth/logout/client, clearing only
// the client slot. An employee session in the other slot survives, so a
// staff member browsing the portal can drop the client login alone.
func (h *AuthHandlers) HandleLogoutClient(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, ClientSessionCookie)
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleSession handles GET /api/auth/session, reporting the revalidated
// identity of the current request, if any.
func (h *AuthHandlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	switch v := id.(type) {
	case identity.Employee:
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": true,
			"kind":          v.IdentityKind(),
			"identity":      employeeView(v),
		})
	case identity.Client:
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": true,
			"kind":          v.IdentityKind(),
			"identity":      clientView(v),
		})
	}
}

// employeeView is the employee shape exposed over the API: no password
// material, role flattened for the frontend.
func employeeView(e identity.Employee) map[string]any {
	v := map[string]any{
		"id":           e.ID,
		"email":        e.Email,
		"display_name": e.DisplayName,
		"active":       e.Active,
		"is_admin":     e.IsAdmin(),
	}
	if e.Role != nil {
		v["role"] = e.Role
	}
	return v
}

func clientView(c identity.Client) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"login_handle": c.LoginHandle,
		"display_name": c.DisplayName,
		"status":       c.Status,
	}
}
