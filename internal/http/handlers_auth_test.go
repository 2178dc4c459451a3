package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	mocks "github.com/opsdesk/opsdesk-api/internal/mocks/auth"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

type authFixture struct {
	*identityFixture
	handlers *AuthHandlers
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	idf := newIdentityFixture(t)
	login := service.NewLoginService(service.LoginServiceOptions{
		Employees: idf.employees,
		Clients:   idf.clients,
		Hasher:    mocks.PlainHasher{},
		Sessions:  idf.sessions,
		Logger:    testLogger(),
	})
	return &authFixture{
		identityFixture: idf,
		handlers:        &AuthHandlers{Login: login, Sessions: idf.sessions, Logger: testLogger()},
	}
}

func postLogin(t *testing.T, h *AuthHandlers, identifier, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"identifier":"` + identifier + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleLogin(w, req)
	return w
}

func TestHandleLogin_Employee(t *testing.T) {
	f := newAuthFixture(t)
	f.employees.Add(staffEmployee(), "plain:s3cretpass")

	w := postLogin(t, f.handlers, "ann@example.com", "s3cretpass")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool   `json:"success"`
		Kind     string `json:"kind"`
		HomePath string `json:"home_path"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "employee", resp.Kind)
	assert.Equal(t, "/dashboard", resp.HomePath)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, EmployeeSessionCookie, c.Name)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, int(service.DefaultSessionTTL.Seconds()), c.MaxAge)
}

func TestHandleLogin_Client(t *testing.T) {
	f := newAuthFixture(t)
	f.clients.Add(identity.Client{
		ID:          "c1",
		LoginHandle: "acme",
		DisplayName: "Acme Co",
		Status:      identity.ClientApproved,
	}, "plain:portalpass")

	w := postLogin(t, f.handlers, "acme", "portalpass")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Kind     string `json:"kind"`
		HomePath string `json:"home_path"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "client", resp.Kind)
	assert.Equal(t, "/portal", resp.HomePath)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClientSessionCookie, cookies[0].Name)
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.employees.Add(staffEmployee(), "plain:s3cretpass")

	w := postLogin(t, f.handlers, "ann@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "invalid_credentials", resp.Error)
	assert.Empty(t, w.Result().Cookies())
}

func TestHandleLogin_RejectsUnknownFields(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"identifier":"x","password":"y","extra":true}`))
	w := httptest.NewRecorder()
	f.handlers.HandleLogin(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLogout_ClearsBothSlots(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	f.handlers.HandleLogout(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	names := []string{cookies[0].Name, cookies[1].Name}
	assert.ElementsMatch(t, []string{EmployeeSessionCookie, ClientSessionCookie}, names)
	for _, c := range cookies {
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestHandleLogoutClient_LeavesEmployeeSlot(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout/client", nil)
	w := httptest.NewRecorder()
	f.handlers.HandleLogoutClient(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClientSessionCookie, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestHandleSession(t *testing.T) {
	f := newAuthFixture(t)

	// Anonymous.
	w := httptest.NewRecorder()
	f.handlers.HandleSession(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var anon struct {
		Authenticated bool `json:"authenticated"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&anon))
	assert.False(t, anon.Authenticated)

	// Employee in context.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req = req.WithContext(SetIdentityInContext(req.Context(), staffEmployee()))
	w = httptest.NewRecorder()
	f.handlers.HandleSession(w, req)

	var resp struct {
		Authenticated bool           `json:"authenticated"`
		Kind          string         `json:"kind"`
		Identity      map[string]any `json:"identity"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "employee", resp.Kind)
	assert.Equal(t, "ann@example.com", resp.Identity["email"])
	_, leaked := resp.Identity["password_hash"]
	assert.False(t, leaked)
}
