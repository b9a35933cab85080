package handler

import (
	"net/http"

	"github.com/vfg2006/adops-finance-api/internal/api/handler/router"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/account"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authenticating"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authorizing"
	"github.com/vfg2006/adops-finance-api/internal/usecases/channel"
	"github.com/vfg2006/adops-finance-api/internal/usecases/ledger"
	"github.com/vfg2006/adops-finance-api/internal/usecases/project"
	"github.com/vfg2006/adops-finance-api/internal/usecases/reconciling"
	"github.com/vfg2006/adops-finance-api/internal/usecases/spending"
	"github.com/vfg2006/adops-finance-api/internal/usecases/topup"
	"github.com/vfg2006/adops-finance-api/pkg/middleware"
)

// Paths sem autenticação, já com o prefixo da API quando houver
const (
	PathHealthz      = "/healthz"
	PathReadyz       = "/readyz"
	PathLogin        = "/auth/login"
	PathRefreshToken = "/auth/refresh"
)

var (
	admin          = domain.RoleAdmin
	finance        = domain.RoleFinance
	dataOperator   = domain.RoleDataOperator
	accountManager = domain.RoleAccountManager
	mediaBuyer     = domain.RoleMediaBuyer
	manager        = domain.RoleManager
)

func roles(r ...domain.Role) []domain.Role {
	return r
}

func Healthcheck(deps map[string]Pinger) []router.Route {
	return []router.Route{
		{
			Path:    PathHealthz,
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    PathReadyz,
			Method:  http.MethodGet,
			Handler: ReadinessHandler(deps),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    PathLogin,
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    PathRefreshToken,
			Method:  http.MethodPost,
			Handler: RefreshToken(service),
		},
		{
			Path:    "/auth/logout",
			Method:  http.MethodPost,
			Handler: Logout(service),
		},
		{
			Path:    "/auth/me",
			Method:  http.MethodGet,
			Handler: GetMe(service),
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/users",
			Method:  http.MethodGet,
			Handler: ListUsers(service),
			Roles:   roles(admin),
		},
		{
			Path:    "/users",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
			Roles:   roles(admin),
		},
		{
			Path:    "/users/:id/deactivate",
			Method:  http.MethodPost,
			Handler: DeactivateUser(service),
			Roles:   roles(admin),
		},
	}
}

func Projects(service project.ProjectService) []router.Route {
	return []router.Route{
		{
			Path:    "/projects",
			Method:  http.MethodGet,
			Handler: ListProjects(service),
		},
		{
			Path:    "/projects",
			Method:  http.MethodPost,
			Handler: CreateProject(service),
			Roles:   roles(admin),
		},
		{
			Path:    "/projects/:id",
			Method:  http.MethodGet,
			Handler: GetProject(service),
			Roles:   roles(admin, accountManager),
		},
		{
			Path:    "/projects/:id",
			Method:  http.MethodPut,
			Handler: UpdateProject(service),
			Roles:   roles(admin, accountManager),
		},
	}
}

func Channels(service channel.ChannelService) []router.Route {
	return []router.Route{
		{
			Path:    "/channels",
			Method:  http.MethodGet,
			Handler: ListChannels(service),
			Roles:   roles(admin, finance, accountManager),
		},
		{
			Path:    "/channels/:id",
			Method:  http.MethodGet,
			Handler: GetChannel(service),
			Roles:   roles(admin, finance, accountManager),
		},
		{
			Path:    "/channels",
			Method:  http.MethodPost,
			Handler: CreateChannel(service),
			Roles:   roles(admin, finance),
		},
		{
			Path:    "/channels/:id",
			Method:  http.MethodPut,
			Handler: UpdateChannel(service),
			Roles:   roles(admin, finance),
		},
	}
}

func AdAccounts(service account.AccountService) []router.Route {
	return []router.Route{
		{
			Path:    "/ad-accounts",
			Method:  http.MethodGet,
			Handler: AdAccountList(service),
		},
		{
			Path:    "/ad-accounts/:id",
			Method:  http.MethodGet,
			Handler: GetAdAccount(service),
		},
		{
			Path:    "/ad-accounts",
			Method:  http.MethodPost,
			Handler: CreateAdAccount(service),
			Roles:   roles(admin, accountManager),
		},
		{
			Path:    "/ad-accounts/:id",
			Method:  http.MethodPut,
			Handler: UpdateAdAccount(service),
			Roles:   roles(admin, accountManager),
		},
		{
			Path:    "/ad-accounts/:id/status",
			Method:  http.MethodPost,
			Handler: TransitionAdAccount(service),
			Roles:   roles(admin, accountManager, finance),
		},
	}
}

func AdSpend(service spending.SpendingService) []router.Route {
	return []router.Route{
		{
			Path:    "/adspend/report",
			Method:  http.MethodPost,
			Handler: SubmitSpendReport(service),
			Roles:   roles(admin, mediaBuyer, dataOperator),
		},
		{
			Path:    "/adspend/reports",
			Method:  http.MethodGet,
			Handler: ListSpendReports(service),
		},
		{
			Path:    "/adspend/reports/:id",
			Method:  http.MethodGet,
			Handler: GetSpendReport(service),
		},
	}
}

func Topups(service topup.TopupService) []router.Route {
	return []router.Route{
		{
			Path:    "/topups",
			Method:  http.MethodPost,
			Handler: CreateTopup(service),
			Roles:   roles(accountManager, mediaBuyer),
		},
		{
			Path:    "/topups",
			Method:  http.MethodGet,
			Handler: ListTopups(service),
		},
		{
			Path:    "/topups/:id",
			Method:  http.MethodGet,
			Handler: GetTopup(service),
		},
		{
			Path:    "/topups/:id/approve",
			Method:  http.MethodPost,
			Handler: TransitionTopup(service.Approve),
			Roles:   roles(admin, finance, manager),
		},
		{
			Path:    "/topups/:id/reject",
			Method:  http.MethodPost,
			Handler: TransitionTopup(service.Reject),
			Roles:   roles(admin, finance, manager),
		},
		{
			Path:    "/topups/:id/pay",
			Method:  http.MethodPost,
			Handler: TransitionTopup(service.Pay),
			Roles:   roles(admin, finance),
		},
		{
			Path:    "/topups/:id/confirm",
			Method:  http.MethodPost,
			Handler: TransitionTopup(service.Confirm),
			Roles:   roles(admin, finance),
		},
	}
}

func Reconciliations(service reconciling.ReconciliationService) []router.Route {
	reconcile := []func(http.Handler) http.Handler{middleware.RequirePermission(authorizing.PermReconciliation)}

	return []router.Route{
		{
			Path:        "/reconciliations/auto",
			Method:      http.MethodPost,
			Handler:     RunAutoReconciliation(service),
			Roles:       roles(admin, finance),
			Middlewares: reconcile,
		},
		{
			Path:        "/reconciliations",
			Method:      http.MethodPost,
			Handler:     CreateManualReconciliation(service),
			Roles:       roles(admin, finance),
			Middlewares: reconcile,
		},
		{
			Path:    "/reconciliations",
			Method:  http.MethodGet,
			Handler: ListReconciliations(service),
			Roles:   roles(admin, finance, dataOperator),
		},
		{
			Path:    "/reconciliations/:id",
			Method:  http.MethodGet,
			Handler: GetReconciliation(service),
			Roles:   roles(admin, finance, dataOperator),
		},
		{
			// PUT porque o POST /reconciliations/auto ocupa o segmento estático
			Path:        "/reconciliations/:id/review",
			Method:      http.MethodPut,
			Handler:     ReviewReconciliation(service),
			Roles:       roles(admin, finance),
			Middlewares: reconcile,
		},
	}
}

func Ledgers(service ledger.LedgerService) []router.Route {
	return []router.Route{
		{
			Path:    "/ledgers",
			Method:  http.MethodGet,
			Handler: ListLedgers(service),
			Roles:   roles(admin, finance, dataOperator),
		},
		{
			Path:    "/ledgers/:id",
			Method:  http.MethodGet,
			Handler: GetLedger(service),
			Roles:   roles(admin, finance, dataOperator),
		},
		{
			Path:    "/ledgers",
			Method:  http.MethodPost,
			Handler: CreateLedger(service),
			Roles:   roles(admin, finance),
		},
	}
}

func AuditLogs(service auditing.Auditor) []router.Route {
	return []router.Route{
		{
			Path:    "/audit-logs",
			Method:  http.MethodGet,
			Handler: ListAuditLogs(service),
			Roles:   roles(admin),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
			Roles:   roles(admin),
		},
		{
			Path:    "/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
			Roles:   roles(admin),
		},
	}
}
