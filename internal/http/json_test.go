package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-api/internal/data"
	apperrors "github.com/opsdesk/opsdesk-api/internal/errors"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"throttled", service.ErrTooManyAttempts, http.StatusTooManyRequests, "too_many_attempts"},
		{"no session", service.ErrNoSession, http.StatusUnauthorized, "no_session"},
		{"employee not found", data.ErrEmployeeNotFound, http.StatusNotFound, "not_found"},
		{"contract not found", data.ErrContractNotFound, http.StatusNotFound, "not_found"},
		{"duplicate email", data.ErrEmployeeEmailExists, http.StatusConflict, "conflict"},
		{"validation", apperrors.ValidationField("title", "title is required"), http.StatusBadRequest, "validation"},
		{"permission denied", apperrors.PermissionDenied("denied"), http.StatusForbidden, "permission_denied"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteServiceError(w, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantErr, body.Error)
		})
	}
}

func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteServiceError(w, assert.AnError)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "internal server error", body.Message)
}

func TestDecodeJSON_RejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()

	var dst struct{}
	ok := DecodeJSON(w, req, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
