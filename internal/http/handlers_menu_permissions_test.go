package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
	mocks "github.com/opsdesk/opsdesk-api/internal/mocks/auth"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

func newMenuPermHandlers(perms *mocks.MemoryMenuPermissionStore) *MenuPermissionHandlers {
	return &MenuPermissionHandlers{
		Svc: service.NewMenuPermissionService(service.MenuPermissionServiceOptions{
			Permissions: perms,
			Logger:      testLogger(),
		}),
		Resolver: service.NewMenuAuthService(service.MenuAuthServiceOptions{
			Permissions: perms,
			Logger:      testLogger(),
		}),
	}
}

func TestMenuPermissionHandlers_BulkUpsert(t *testing.T) {
	perms := mocks.NewMemoryMenuPermissionStore()
	h := newMenuPermHandlers(perms)

	body := `{"permissions":[
		{"menu_key":"contract-list","employee_id":"e1","allowed":true},
		{"menu_key":"staff-directory","employee_id":"e1","allowed":false}
	]}`
	req := httptest.NewRequest(http.MethodPut, "/api/menu-permissions", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.BulkUpsert(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res service.BulkUpsertResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 2, res.Applied)
	assert.Empty(t, res.Failed)

	p, err := perms.Find(t.Context(), "e1", "staff-directory")
	require.NoError(t, err)
	assert.False(t, p.Allowed)
}

func TestMenuPermissionHandlers_BulkUpsert_EmptyBody(t *testing.T) {
	h := newMenuPermHandlers(mocks.NewMemoryMenuPermissionStore())

	req := httptest.NewRequest(http.MethodPut, "/api/menu-permissions", strings.NewReader(`{"permissions":[]}`))
	w := httptest.NewRecorder()
	h.BulkUpsert(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMenuPermissionHandlers_BulkUpsert_PartialFailure(t *testing.T) {
	perms := mocks.NewMemoryMenuPermissionStore()
	perms.UpsertErr = assert.AnError
	h := newMenuPermHandlers(perms)

	body := `{"permissions":[{"menu_key":"contract-list","employee_id":"e1","allowed":true}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/menu-permissions", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.BulkUpsert(w, req)

	require.Equal(t, http.StatusMultiStatus, w.Code)
	var res service.BulkUpsertResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Zero(t, res.Applied)
	assert.Len(t, res.Failed, 1)
}

func TestMenuPermissionHandlers_MenuKeys(t *testing.T) {
	h := newMenuPermHandlers(mocks.NewMemoryMenuPermissionStore())

	w := httptest.NewRecorder()
	h.MenuKeys(w, httptest.NewRequest(http.MethodGet, "/api/menu-permissions/keys", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Entries []menu.Entry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Entries, len(menu.DefaultKeyMap().Entries()))
}

func TestMenuPermissionHandlers_ListByEmployee(t *testing.T) {
	perms := mocks.NewMemoryMenuPermissionStore()
	perms.Grant("e1", "contract-list")
	perms.Grant("e2", "staff-directory")
	h := newMenuPermHandlers(perms)

	req := httptest.NewRequest(http.MethodGet, "/api/menu-permissions/employee/e1", nil)
	req.SetPathValue("id", "e1")
	w := httptest.NewRecorder()
	h.ListByEmployee(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Permissions []menu.Permission `json:"permissions"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Permissions, 1)
	assert.Equal(t, "contract-list", resp.Permissions[0].MenuKey)
}
