package httpx

import (
	"log/slog"
	"net/http"

	"github.com/opsdesk/opsdesk-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions        *service.SessionService
	Login           *service.LoginService
	MenuAuth        *service.MenuAuthService
	MenuPermissions *service.MenuPermissionService
	Clients         *service.ClientService
	Employees       *service.EmployeeService
	Contracts       *service.ContractService
	// SSO is optional; the /auth/sso routes exist only when it is set.
	SSO    *service.SSOService
	Logger *slog.Logger
}

// viewPaths are the server-resolved page paths. The edge guard covers
// their top-level prefixes; the Resolve handler is the actual authority
// check for each of them.
var viewPaths = []string{
	"/dashboard",
	"/portal",
	"/clients",
	"/clients/approvals",
	"/vendors",
	"/contracts",
	"/contracts/new",
	"/operations",
	"/operations/reports",
	"/staff",
	"/staff/approvals",
	"/settings/permissions",
}

// edgeGuardPrefixes are the path prefixes the presence-only edge check
// protects. Auth pages and the API are excluded; API routes carry their
// own middleware.
var edgeGuardPrefixes = []string{
	"/dashboard",
	"/portal",
	"/clients",
	"/vendors",
	"/contracts",
	"/operations",
	"/staff",
	"/settings",
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Login: services.Login, Sessions: services.Sessions, Logger: logger}
	clientHandlers := &ClientHandlers{Svc: services.Clients}
	employeeHandlers := &EmployeeHandlers{Svc: services.Employees}
	contractHandlers := &ContractHandlers{Svc: services.Contracts}
	menuPermHandlers := &MenuPermissionHandlers{Svc: services.MenuPermissions, Resolver: services.MenuAuth}
	viewHandlers := &ViewHandlers{Auth: services.MenuAuth}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerAuthRoutes(mux, authHandlers)
	if services.SSO != nil {
		ssoHandlers := &SSOHandlers{Svc: services.SSO, Sessions: services.Sessions, Logger: logger}
		mux.Handle("GET /auth/sso/login", http.HandlerFunc(ssoHandlers.HandleBegin))
		mux.Handle("GET /auth/sso/callback", http.HandlerFunc(ssoHandlers.HandleCallback))
	}

	registerClientRoutes(mux, clientHandlers)
	registerEmployeeRoutes(mux, employeeHandlers)
	registerContractRoutes(mux, contractHandlers)
	registerMenuPermissionRoutes(mux, menuPermHandlers)
	registerViewRoutes(mux, viewHandlers)

	// Middleware order, outermost first: recover, logging, presence-only
	// edge guard, then identity resolution for everything beneath.
	handler := WithIdentity(services.Sessions)(mux)
	handler = EdgeGuard(edgeGuardPrefixes)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("POST /api/auth/login", http.HandlerFunc(h.HandleLogin))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.HandleLogout))
	mux.Handle("POST /api/auth/logout/client", http.HandlerFunc(h.HandleLogoutClient))
	mux.Handle("GET /api/auth/session", http.HandlerFunc(h.HandleSession))
}

func registerClientRoutes(mux *http.ServeMux, h *ClientHandlers) {
	mux.Handle("POST /api/clients/signup", http.HandlerFunc(h.Signup))
	mux.Handle("GET /api/clients", RequireEmployee(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/clients/{id}", RequireEmployee(http.HandlerFunc(h.GetByID)))
	mux.Handle("POST /api/clients/{id}/status", RequireAdmin(http.HandlerFunc(h.SetStatus)))
	mux.Handle("POST /api/clients/{id}/approve", RequireEmployee(http.HandlerFunc(h.Approve)))
}

func registerEmployeeRoutes(mux *http.ServeMux, h *EmployeeHandlers) {
	mux.Handle("POST /api/employees", RequireAdmin(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/employees", RequireEmployee(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/employees/{id}", RequireEmployee(http.HandlerFunc(h.GetByID)))
	mux.Handle("PATCH /api/employees/{id}", RequireAdmin(http.HandlerFunc(h.Update)))
	mux.Handle("GET /api/roles", RequireEmployee(http.HandlerFunc(h.Roles)))
}

func registerContractRoutes(mux *http.ServeMux, h *ContractHandlers) {
	mux.Handle("POST /api/contracts", RequireEmployee(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/contracts", RequireEmployee(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/contracts/{id}", RequireEmployee(http.HandlerFunc(h.GetByID)))
	mux.Handle("PATCH /api/contracts/{id}", RequireEmployee(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/contracts/{id}", RequireAdmin(http.HandlerFunc(h.Delete)))
}

// Menu permission admin routes carry an explicit admin gate rather than
// trusting the calling pages to restrict access.
func registerMenuPermissionRoutes(mux *http.ServeMux, h *MenuPermissionHandlers) {
	mux.Handle("GET /api/menu-permissions", RequireAdmin(http.HandlerFunc(h.ListAll)))
	mux.Handle("GET /api/menu-permissions/keys", RequireAdmin(http.HandlerFunc(h.MenuKeys)))
	mux.Handle("GET /api/menu-permissions/key/{key}", RequireAdmin(http.HandlerFunc(h.ListByMenuKey)))
	mux.Handle("GET /api/menu-permissions/employee/{id}", RequireAdmin(http.HandlerFunc(h.ListByEmployee)))
	mux.Handle("PUT /api/menu-permissions", RequireAdmin(http.HandlerFunc(h.BulkUpsert)))
}

func registerViewRoutes(mux *http.ServeMux, h *ViewHandlers) {
	for _, path := range viewPaths {
		mux.Handle("GET "+path, http.HandlerFunc(h.Resolve))
	}
}
