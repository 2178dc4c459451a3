package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	mocks "github.com/opsdesk/opsdesk-api/internal/mocks/auth"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

// routerFixture stands up the full router over in-memory stores, so these
// tests cross the real middleware chain end to end.
type routerFixture struct {
	*identityFixture
	perms   *mocks.MemoryMenuPermissionStore
	handler http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	idf := newIdentityFixture(t)
	perms := mocks.NewMemoryMenuPermissionStore()

	login := service.NewLoginService(service.LoginServiceOptions{
		Employees: idf.employees,
		Clients:   idf.clients,
		Hasher:    mocks.PlainHasher{},
		Sessions:  idf.sessions,
		Logger:    testLogger(),
	})
	menuAuth := service.NewMenuAuthService(service.MenuAuthServiceOptions{
		Permissions: perms,
		Logger:      testLogger(),
	})

	handler := NewRouter(RouterServices{
		Sessions: idf.sessions,
		Login:    login,
		MenuAuth: menuAuth,
		Logger:   testLogger(),
	})
	return &routerFixture{identityFixture: idf, perms: perms, handler: handler}
}

func (f *routerFixture) addClient(t *testing.T, c identity.Client) string {
	t.Helper()
	f.clients.Add(c, "")
	issued, err := f.sessions.CreateClientSession(t.Context(), c.ID)
	require.NoError(t, err)
	return issued.Value
}

func (f *routerFixture) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t)

	w := f.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AnonymousViewRedirectsToLogin(t *testing.T) {
	f := newRouterFixture(t)

	w := f.get("/contracts")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fcontracts", w.Header().Get("Location"))
}

func TestRouter_StaleCookiePassesEdgeButFailsPage(t *testing.T) {
	f := newRouterFixture(t)

	// A forged cookie clears the edge guard, then full revalidation at the
	// page sends the caller back to login.
	w := f.get("/contracts", &http.Cookie{Name: EmployeeSessionCookie, Value: "forged"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fcontracts", w.Header().Get("Location"))
}

func TestRouter_EmployeeWithoutGrantIsDenied(t *testing.T) {
	f := newRouterFixture(t)
	value := f.addEmployee(t, staffEmployee())

	w := f.get("/contracts", &http.Cookie{Name: EmployeeSessionCookie, Value: value})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard?error=permission_denied", w.Header().Get("Location"))
}

func TestRouter_EmployeeWithGrantResolvesView(t *testing.T) {
	f := newRouterFixture(t)
	value := f.addEmployee(t, staffEmployee())
	f.perms.Grant("e1", "contract-list")

	w := f.get("/contracts", &http.Cookie{Name: EmployeeSessionCookie, Value: value})
	require.Equal(t, http.StatusOK, w.Code)

	var desc struct {
		Path    string `json:"path"`
		MenuKey string `json:"menu_key"`
		Kind    string `json:"kind"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&desc))
	assert.Equal(t, "/contracts", desc.Path)
	assert.Equal(t, "contract-list", desc.MenuKey)
	assert.Equal(t, "employee", desc.Kind)
}

func TestRouter_AdminBypassesGrants(t *testing.T) {
	f := newRouterFixture(t)
	value := f.addEmployee(t, adminStaff())

	w := f.get("/settings/permissions", &http.Cookie{Name: EmployeeSessionCookie, Value: value})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_DashboardNeedsNoGrant(t *testing.T) {
	f := newRouterFixture(t)
	value := f.addEmployee(t, staffEmployee())

	w := f.get("/dashboard", &http.Cookie{Name: EmployeeSessionCookie, Value: value})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ClientOnStaffViewGoesToPortal(t *testing.T) {
	f := newRouterFixture(t)
	value := f.addClient(t, identity.Client{
		ID:          "c1",
		LoginHandle: "acme",
		DisplayName: "Acme Co",
		Status:      identity.ClientApproved,
	})

	w := f.get("/contracts", &http.Cookie{Name: ClientSessionCookie, Value: value})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/portal", w.Header().Get("Location"))
}

func TestRouter_ClientReachesPortal(t *testing.T) {
	f := newRouterFixture(t)
	value := f.addClient(t, identity.Client{
		ID:          "c1",
		LoginHandle: "acme",
		DisplayName: "Acme Co",
		Status:      identity.ClientApproved,
	})

	w := f.get("/portal", &http.Cookie{Name: ClientSessionCookie, Value: value})
	require.Equal(t, http.StatusOK, w.Code)

	var desc struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&desc))
	assert.Equal(t, "client", desc.Kind)
}

func TestRouter_SuspendedClientLosesSessionOnNextRequest(t *testing.T) {
	f := newRouterFixture(t)
	c := identity.Client{ID: "c1", LoginHandle: "acme", DisplayName: "Acme Co", Status: identity.ClientApproved}
	value := f.addClient(t, c)

	c.Status = identity.ClientSuspended
	f.clients.Clients["c1"] = c

	w := f.get("/portal", &http.Cookie{Name: ClientSessionCookie, Value: value})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fportal", w.Header().Get("Location"))

	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == ClientSessionCookie && ck.MaxAge == -1 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestRouter_SessionEndpointRoundTrip(t *testing.T) {
	f := newRouterFixture(t)
	value := f.addEmployee(t, staffEmployee())

	w := f.get("/api/auth/session", &http.Cookie{Name: EmployeeSessionCookie, Value: value})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Authenticated bool   `json:"authenticated"`
		Kind          string `json:"kind"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "employee", resp.Kind)
}

func TestRouter_SSORoutesAbsentWhenUnconfigured(t *testing.T) {
	f := newRouterFixture(t)

	w := f.get("/auth/sso/login")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
