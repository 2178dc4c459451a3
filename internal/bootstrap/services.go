package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/opsdesk/opsdesk-api/config"
	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/service"
)

// ServiceContainer holds the application services.
type ServiceContainer struct {
	Sessions        *service.SessionService
	Login           *service.LoginService
	MenuAuth        *service.MenuAuthService
	MenuPermissions *service.MenuPermissionService
	Clients         *service.ClientService
	Employees       *service.EmployeeService
	Contracts       *service.ContractService
	// SSO is nil unless AUTH_MODE=sso.
	SSO *service.SSOService
}

// ServiceDeps contains the shared dependencies services are built from.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient *redis.Client
	Logger      *slog.Logger
}

// NewServices wires repositories, auth adapters, and services together.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	auth, err := BuildAuthComponents(deps.Config.Auth, deps.RedisClient, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	employeeRepo := data.NewEmployeeRepo(deps.DB)
	clientRepo := data.NewClientRepo(deps.DB)
	roleRepo := data.NewRoleRepo(deps.DB)
	menuPermRepo := data.NewMenuPermissionRepo(deps.DB)
	contractRepo := data.NewContractRepo(deps.DB)

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Codec:     auth.Codec,
		Employees: employeeRepo,
		Clients:   clientRepo,
		TTL:       deps.Config.Auth.SessionTTL,
		Logger:    logger,
	})

	container := ServiceContainer{
		Sessions: sessions,
		Login: service.NewLoginService(service.LoginServiceOptions{
			Employees: employeeRepo,
			Clients:   clientRepo,
			Hasher:    auth.Hasher,
			Sessions:  sessions,
			Limiter:   auth.Limiter,
			Logger:    logger,
		}),
		MenuAuth: service.NewMenuAuthService(service.MenuAuthServiceOptions{
			Permissions: menuPermRepo,
			Logger:      logger,
		}),
		MenuPermissions: service.NewMenuPermissionService(service.MenuPermissionServiceOptions{
			Permissions: menuPermRepo,
			Logger:      logger,
		}),
		Clients: service.NewClientService(service.ClientServiceOptions{
			Clients: clientRepo,
			Hasher:  auth.Hasher,
		}),
		Employees: service.NewEmployeeService(service.EmployeeServiceOptions{
			Employees: employeeRepo,
			Roles:     roleRepo,
			Hasher:    auth.Hasher,
		}),
		Contracts: service.NewContractService(service.ContractServiceOptions{
			Contracts: contractRepo,
			Clients:   clientRepo,
		}),
	}

	if auth.SSOProvider != nil {
		container.SSO = service.NewSSOService(service.SSOServiceOptions{
			Provider:  auth.SSOProvider,
			Employees: employeeRepo,
			Sessions:  sessions,
		})
	}

	return container, nil
}
