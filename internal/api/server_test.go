package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adops-finance-api/internal/api/handler"
	"github.com/vfg2006/adops-finance-api/internal/config"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	accountmocks "github.com/vfg2006/adops-finance-api/internal/usecases/account/mocks"
	auditmocks "github.com/vfg2006/adops-finance-api/internal/usecases/auditing/mocks"
	authmocks "github.com/vfg2006/adops-finance-api/internal/usecases/authenticating/mocks"
	channelmocks "github.com/vfg2006/adops-finance-api/internal/usecases/channel/mocks"
	ledgermocks "github.com/vfg2006/adops-finance-api/internal/usecases/ledger/mocks"
	projectmocks "github.com/vfg2006/adops-finance-api/internal/usecases/project/mocks"
	reconcilingmocks "github.com/vfg2006/adops-finance-api/internal/usecases/reconciling/mocks"
	spendingmocks "github.com/vfg2006/adops-finance-api/internal/usecases/spending/mocks"
	topupmocks "github.com/vfg2006/adops-finance-api/internal/usecases/topup/mocks"
	"github.com/vfg2006/adops-finance-api/internal/usecases/topup"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Data  jsoniter.RawMessage `json:"data"`
	Error struct {
		Code    *string `json:"code"`
		Message *string `json:"message"`
	} `json:"error"`
	Meta struct {
		RequestID  string `json:"request_id"`
		Pagination *struct {
			Page       int `json:"page"`
			PageSize   int `json:"page_size"`
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// assertNullData confere o campo data no corpo bruto; RawMessage não distingue null
func assertNullData(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	var raw map[string]any
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &raw))
	data, ok := raw["data"]
	assert.True(t, ok, "envelope sem o campo data")
	assert.Nil(t, data)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeCronJob struct{ triggered int }

func (f *fakeCronJob) TriggerManualSync(context.Context) bool {
	f.triggered++
	return true
}

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"sync_running": false}
}

type apiEnv struct {
	handler   http.Handler
	auth      *authmocks.MockAuthenticator
	projects  *projectmocks.MockProjectService
	channels  *channelmocks.MockChannelService
	accounts  *accountmocks.MockAccountService
	spending  *spendingmocks.MockSpendingService
	topups    *topupmocks.MockTopupService
	reconcile *reconcilingmocks.MockReconciliationService
	ledgers   *ledgermocks.MockLedgerService
	audits    *auditmocks.MockAuditor
	cron      *fakeCronJob
}

// token no formato "role:<papel>" vira um Caller com esse papel
func newAPIEnv(t *testing.T, readiness map[string]handler.Pinger) *apiEnv {
	ctrl := gomock.NewController(t)
	env := &apiEnv{
		auth:      authmocks.NewMockAuthenticator(ctrl),
		projects:  projectmocks.NewMockProjectService(ctrl),
		channels:  channelmocks.NewMockChannelService(ctrl),
		accounts:  accountmocks.NewMockAccountService(ctrl),
		spending:  spendingmocks.NewMockSpendingService(ctrl),
		topups:    topupmocks.NewMockTopupService(ctrl),
		reconcile: reconcilingmocks.NewMockReconciliationService(ctrl),
		ledgers:   ledgermocks.NewMockLedgerService(ctrl),
		audits:    auditmocks.NewMockAuditor(ctrl),
		cron:      &fakeCronJob{},
	}

	env.auth.EXPECT().Resolve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, token string) (*domain.Caller, error) {
			role, ok := strings.CutPrefix(token, "role:")
			if !ok {
				return nil, apiErrors.New(apiErrors.ErrAuthInvalidToken, "认证令牌无效")
			}
			return &domain.Caller{ID: uuid.New(), Role: domain.Role(role)}, nil
		}).AnyTimes()

	cfg := &config.Config{App: config.App{PathPrefix: "/api/v1"}}
	env.handler = NewHandler(cfg, Services{
		Authenticator:  env.auth,
		Projects:       env.projects,
		Channels:       env.channels,
		Accounts:       env.accounts,
		Spending:       env.spending,
		Topups:         env.topups,
		Reconciliation: env.reconcile,
		Ledgers:        env.ledgers,
		Auditor:        env.audits,
		CronJobs:       handler.CronJobServices{handler.CronJobTypeReconciliation: env.cron},
		Readiness:      readiness,
	})
	return env
}

// stubAll faz todos os serviços responderem NOT_FOUND, o suficiente para
// distinguir "passou pelo controle de papel" de 401/403.
func (e *apiEnv) stubAll() {
	nf := apiErrors.NotFound("")
	x := gomock.Any()

	e.auth.EXPECT().Login(x, x).Return(nil, nf).AnyTimes()
	e.auth.EXPECT().Refresh(x, x).Return(nil, nf).AnyTimes()
	e.auth.EXPECT().Logout(x, x, x).Return(nf).AnyTimes()
	e.auth.EXPECT().Me(x, x).Return(nil, nf).AnyTimes()
	e.auth.EXPECT().ListUsers(x, x).Return(nil, 0, nf).AnyTimes()
	e.auth.EXPECT().CreateUser(x, x, x).Return(nil, nf).AnyTimes()
	e.auth.EXPECT().DeactivateUser(x, x, x).Return(nil, nf).AnyTimes()

	e.projects.EXPECT().ListProjects(x, x, x).Return(nil, 0, nf).AnyTimes()
	e.projects.EXPECT().GetProject(x, x, x).Return(nil, nf).AnyTimes()
	e.projects.EXPECT().CreateProject(x, x, x).Return(nil, nf).AnyTimes()
	e.projects.EXPECT().UpdateProject(x, x, x, x).Return(nil, nf).AnyTimes()

	e.channels.EXPECT().ListChannels(x, x).Return(nil, 0, nf).AnyTimes()
	e.channels.EXPECT().GetChannel(x, x).Return(nil, nf).AnyTimes()
	e.channels.EXPECT().CreateChannel(x, x, x).Return(nil, nf).AnyTimes()
	e.channels.EXPECT().UpdateChannel(x, x, x, x).Return(nil, nf).AnyTimes()

	e.accounts.EXPECT().ListAccounts(x, x, x).Return(nil, 0, nf).AnyTimes()
	e.accounts.EXPECT().GetAccount(x, x, x).Return(nil, nf).AnyTimes()
	e.accounts.EXPECT().CreateAccount(x, x, x).Return(nil, nf).AnyTimes()
	e.accounts.EXPECT().UpdateAccount(x, x, x, x).Return(nil, nf).AnyTimes()
	e.accounts.EXPECT().TransitionAccount(x, x, x, x).Return(nil, nf).AnyTimes()

	e.spending.EXPECT().SubmitReport(x, x, x).Return(nil, nf).AnyTimes()
	e.spending.EXPECT().GetReport(x, x, x).Return(nil, nf).AnyTimes()
	e.spending.EXPECT().ListReports(x, x, x).Return(nil, 0, nf).AnyTimes()

	e.topups.EXPECT().Create(x, x, x).Return(nil, nf).AnyTimes()
	e.topups.EXPECT().Approve(x, x, x, x).Return(nil, nf).AnyTimes()
	e.topups.EXPECT().Pay(x, x, x, x).Return(nil, nf).AnyTimes()
	e.topups.EXPECT().Confirm(x, x, x, x).Return(nil, nf).AnyTimes()
	e.topups.EXPECT().Reject(x, x, x, x).Return(nil, nf).AnyTimes()
	e.topups.EXPECT().Get(x, x, x).Return(nil, nf).AnyTimes()
	e.topups.EXPECT().List(x, x, x).Return(nil, 0, nf).AnyTimes()

	e.reconcile.EXPECT().RunAuto(x, x).Return(nil, nf).AnyTimes()
	e.reconcile.EXPECT().CreateManual(x, x, x).Return(nil, nf).AnyTimes()
	e.reconcile.EXPECT().Review(x, x, x, x).Return(nil, nf).AnyTimes()
	e.reconcile.EXPECT().Get(x, x, x).Return(nil, nf).AnyTimes()
	e.reconcile.EXPECT().List(x, x, x).Return(nil, 0, nf).AnyTimes()

	e.ledgers.EXPECT().CreateLedger(x, x, x).Return(nil, nf).AnyTimes()
	e.ledgers.EXPECT().GetLedger(x, x).Return(nil, nf).AnyTimes()
	e.ledgers.EXPECT().ListLedgers(x, x).Return(nil, 0, nf).AnyTimes()

	e.audits.EXPECT().List(x, x).Return(nil, 0, nf).AnyTimes()
}

func (e *apiEnv) do(method, path, role, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if role != "" {
		req.Header.Set("Authorization", "Bearer role:"+role)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestRoutesAuthorizationByRole(t *testing.T) {
	id := uuid.New().String()
	all := domain.AllRoles
	r := func(roles ...domain.Role) []domain.Role { return roles }

	admin, finance, dataOp := domain.RoleAdmin, domain.RoleFinance, domain.RoleDataOperator
	am, mb, manager := domain.RoleAccountManager, domain.RoleMediaBuyer, domain.RoleManager

	routes := []struct {
		method  string
		path    string
		allowed []domain.Role
	}{
		{http.MethodPost, "/api/v1/auth/logout", all},
		{http.MethodGet, "/api/v1/auth/me", all},
		{http.MethodGet, "/api/v1/users", r(admin)},
		{http.MethodPost, "/api/v1/users", r(admin)},
		{http.MethodPost, "/api/v1/users/" + id + "/deactivate", r(admin)},
		{http.MethodGet, "/api/v1/projects", all},
		{http.MethodPost, "/api/v1/projects", r(admin)},
		{http.MethodGet, "/api/v1/projects/" + id, r(admin, am)},
		{http.MethodPut, "/api/v1/projects/" + id, r(admin, am)},
		{http.MethodGet, "/api/v1/channels", r(admin, finance, am)},
		{http.MethodGet, "/api/v1/channels/" + id, r(admin, finance, am)},
		{http.MethodPost, "/api/v1/channels", r(admin, finance)},
		{http.MethodPut, "/api/v1/channels/" + id, r(admin, finance)},
		{http.MethodGet, "/api/v1/ad-accounts", all},
		{http.MethodGet, "/api/v1/ad-accounts/" + id, all},
		{http.MethodPost, "/api/v1/ad-accounts", r(admin, am)},
		{http.MethodPut, "/api/v1/ad-accounts/" + id, r(admin, am)},
		{http.MethodPost, "/api/v1/ad-accounts/" + id + "/status", r(admin, am, finance)},
		{http.MethodPost, "/api/v1/adspend/report", r(admin, mb, dataOp)},
		{http.MethodGet, "/api/v1/adspend/reports", all},
		{http.MethodGet, "/api/v1/adspend/reports/" + id, all},
		{http.MethodPost, "/api/v1/topups", r(am, mb)},
		{http.MethodGet, "/api/v1/topups", all},
		{http.MethodGet, "/api/v1/topups/" + id, all},
		{http.MethodPost, "/api/v1/topups/" + id + "/approve", r(admin, finance, manager)},
		{http.MethodPost, "/api/v1/topups/" + id + "/reject", r(admin, finance, manager)},
		{http.MethodPost, "/api/v1/topups/" + id + "/pay", r(admin, finance)},
		{http.MethodPost, "/api/v1/topups/" + id + "/confirm", r(admin, finance)},
		{http.MethodPost, "/api/v1/reconciliations/auto", r(admin, finance)},
		{http.MethodPost, "/api/v1/reconciliations", r(admin, finance)},
		{http.MethodGet, "/api/v1/reconciliations", r(admin, finance, dataOp)},
		{http.MethodGet, "/api/v1/reconciliations/" + id, r(admin, finance, dataOp)},
		{http.MethodPut, "/api/v1/reconciliations/" + id + "/review", r(admin, finance)},
		{http.MethodGet, "/api/v1/ledgers", r(admin, finance, dataOp)},
		{http.MethodGet, "/api/v1/ledgers/" + id, r(admin, finance, dataOp)},
		{http.MethodPost, "/api/v1/ledgers", r(admin, finance)},
		{http.MethodGet, "/api/v1/audit-logs", r(admin)},
		{http.MethodGet, "/api/v1/cron/status", r(admin)},
		{http.MethodPost, "/api/v1/cron/reconciliation/run", r(admin)},
	}

	env := newAPIEnv(t, nil)
	env.stubAll()

	for _, route := range routes {
		allowed := make(map[domain.Role]bool, len(route.allowed))
		for _, role := range route.allowed {
			allowed[role] = true
		}

		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := env.do(route.method, route.path, "", "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "sem token")

			for _, role := range domain.AllRoles {
				rec := env.do(route.method, route.path, string(role), "{}")
				if allowed[role] {
					assert.NotEqual(t, http.StatusForbidden, rec.Code, string(role))
					assert.NotEqual(t, http.StatusUnauthorized, rec.Code, string(role))
					continue
				}
				assert.Equal(t, http.StatusForbidden, rec.Code, string(role))
				assert.Equal(t, apiErrors.ErrPermissionDenied, *decode(t, rec).Error.Code)
			}
		})
	}
}

func TestPublicRoutes(t *testing.T) {
	env := newAPIEnv(t, map[string]handler.Pinger{"postgres": fakePinger{}})
	env.auth.EXPECT().Login(gomock.Any(), domain.LoginRequest{Email: "a@b.com", Password: "secret"}).
		Return(&domain.TokenPair{AccessToken: "x", TokenType: "Bearer"}, nil)

	rec := env.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"a@b.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env2 := decode(t, rec)
	assert.Nil(t, env2.Error.Code)
	assert.Contains(t, string(env2.Data), `"access_token":"x"`)
}

func TestReadinessFailsWhenDependencyIsDown(t *testing.T) {
	env := newAPIEnv(t, map[string]handler.Pinger{
		"postgres": fakePinger{},
		"redis":    fakePinger{err: errors.New("dial tcp: connection refused")},
	})

	rec := env.do(http.MethodGet, "/readyz", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apiErrors.ErrInternal, *body.Error.Code)
	assertNullData(t, rec)
}

func TestUnknownRouteRendersNotFoundEnvelope(t *testing.T) {
	env := newAPIEnv(t, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/does-not-exist"},
		{http.MethodDelete, "/api/v1/projects"},
	} {
		rec := env.do(tc.method, tc.path, string(domain.RoleAdmin), "")
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		body := decode(t, rec)
		assert.Equal(t, apiErrors.ErrNotFound, *body.Error.Code)
		assert.Equal(t, apiErrors.MessageRouteNotFound, *body.Error.Message)
		assert.NotEmpty(t, body.Meta.RequestID)
	}
}

func TestRequestBodyErrors(t *testing.T) {
	env := newAPIEnv(t, nil)

	t.Run("JSON malformado", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/topups", string(domain.RoleMediaBuyer), `{"amount":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, apiErrors.ErrInvalidParam, *body.Error.Code)
		assert.Equal(t, apiErrors.MessageInvalidBody, *body.Error.Message)
	})

	t.Run("campo obrigatório ausente", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/topups", string(domain.RoleMediaBuyer), `{"amount":"100.00"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, *decode(t, rec).Error.Message, "project_id")
	})

	t.Run("id inválido no path", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/topups/not-a-uuid", string(domain.RoleFinance), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("filtro inválido na query", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/adspend/reports?date_from=10/05/2024", string(domain.RoleFinance), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, *decode(t, rec).Error.Message, "date_from")
	})
}

func TestPayPendingTopupReturnsInvalidStatus(t *testing.T) {
	env := newAPIEnv(t, nil)
	id := uuid.New()

	env.topups.EXPECT().Pay(gomock.Any(), gomock.Any(), id, domain.TopupTransitionRequest{}).
		Return(nil, &apiErrors.APIError{
			Code:    apiErrors.ErrInvalidStatus,
			Status:  http.StatusBadRequest,
			Message: topup.MessageInvalidStatus,
			Err:     topup.ErrInvalidTransition,
		})

	rec := env.do(http.MethodPost, "/api/v1/topups/"+id.String()+"/pay", string(domain.RoleFinance), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apiErrors.ErrInvalidStatus, *body.Error.Code)
	assert.Equal(t, topup.MessageInvalidStatus, *body.Error.Message)
	assertNullData(t, rec)
}

func TestListEndpointsCarryPagination(t *testing.T) {
	env := newAPIEnv(t, nil)
	expense := domain.LedgerTypeExpense

	env.ledgers.EXPECT().ListLedgers(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, int, error) {
			assert.Equal(t, &expense, filter.Type)
			assert.Equal(t, domain.NewPage(2, 10), filter.Page)
			return []*domain.Ledger{{ID: uuid.New()}}, 11, nil
		})

	rec := env.do(http.MethodGet, "/api/v1/ledgers?type=expense&page=2&page_size=10", string(domain.RoleDataOperator), "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Meta.Pagination)
	assert.Equal(t, 2, body.Meta.Pagination.Page)
	assert.Equal(t, 11, body.Meta.Pagination.Total)
	assert.Equal(t, 2, body.Meta.Pagination.TotalPages)
}

func TestCronTrigger(t *testing.T) {
	env := newAPIEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/v1/cron/reconciliation/run", string(domain.RoleAdmin), "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, env.cron.triggered)

	rec = env.do(http.MethodPost, "/api/v1/cron/unknown/run", string(domain.RoleAdmin), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
