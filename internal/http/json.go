package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsdesk/opsdesk-api/internal/data"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]any{"success": false, "error": p.ErrCode, "message": p.Err.Error()})
}

// WriteServiceError maps service and data layer errors to an HTTP status
// and writes the structured error body. Store failures surface only a
// generic message.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_credentials", Err: errors.New("invalid identifier or password")})
	case errors.Is(err, service.ErrTooManyAttempts):
		WriteError(w, ErrorParams{Code: http.StatusTooManyRequests, ErrCode: "too_many_attempts", Err: errors.New("too many login attempts, try again later")})
	case errors.Is(err, service.ErrNoSession):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "no_session", Err: errors.New("no active session")})
	case errors.Is(err, data.ErrEmployeeNotFound),
		errors.Is(err, data.ErrClientNotFound),
		errors.Is(err, data.ErrRoleNotFound),
		errors.Is(err, data.ErrContractNotFound),
		errors.Is(err, data.ErrMenuPermissionNotFound),
		apperrors.IsNotFound(err):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case errors.Is(err, data.ErrEmployeeEmailExists),
		errors.Is(err, data.ErrClientHandleExists),
		apperrors.IsConflict(err):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
	case apperrors.IsValidation(err), apperrors.IsForeignKey(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
	case apperrors.IsUnauthorized(err):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthorized", Err: err})
	case apperrors.IsPermissionDenied(err):
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "permission_denied", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: errors.New("internal server error")})
	}
}
