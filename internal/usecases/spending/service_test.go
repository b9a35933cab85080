package spending

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres/postgrestest"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository/mocks"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	svc      *Service
	spends   *mocks.MockAdSpendRepository
	accounts *mocks.MockAccountRepository
	audits   *mocks.MockAuditLogRepository
	db       *postgrestest.Transactor
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	env := &testEnv{
		spends:   mocks.NewMockAdSpendRepository(ctrl),
		accounts: mocks.NewMockAccountRepository(ctrl),
		audits:   mocks.NewMockAuditLogRepository(ctrl),
		db:       postgrestest.New(),
	}

	env.svc = NewService(env.spends, env.accounts, env.db, auditing.NewService(env.audits, env.db)).(*Service)
	env.svc.now = func() time.Time { return fixedNow }
	return env
}

func assertAPIError(t *testing.T, err error, code string, status int) {
	t.Helper()
	var apiErr *apiErrors.APIError
	require.True(t, errors.As(err, &apiErr), "esperava APIError, recebeu %v", err)
	assert.Equal(t, code, apiErr.Code)
	assert.Equal(t, status, apiErr.HTTPStatus())
}

func TestService_SubmitReport(t *testing.T) {
	buyerID := uuid.New()
	buyer := &domain.Caller{ID: buyerID, Role: domain.RoleMediaBuyer, IP: "10.1.1.1"}
	account := &domain.AdAccount{
		ID:                      uuid.New(),
		ProjectID:               uuid.New(),
		ChannelID:               uuid.New(),
		AssignedUserID:          &buyerID,
		Status:                  domain.AdAccountStatusActive,
		ProjectAccountManagerID: uuid.New(),
	}
	day := domain.MustDate("2024-05-09")

	baseReq := domain.SubmitReportRequest{
		AdAccountID: account.ID,
		Date:        day,
		Spend:       domain.MustMoney("100.00"),
		LeadsCount:  10,
	}

	tests := []struct {
		name     string
		caller   *domain.Caller
		req      func() domain.SubmitReportRequest
		setup    func(env *testEnv)
		validate func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error)
	}{
		{
			name:   "primeiro relatório da conta",
			caller: buyer,
			req:    func() domain.SubmitReportRequest { return baseReq },
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
				env.spends.EXPECT().GetByAccountAndDate(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().GetPrevious(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				env.audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ postgres.Queryer, log *domain.AuditLog) error {
						assert.Equal(t, ActionCreate, log.Action)
						assert.Equal(t, domain.TableAdSpendDaily, log.TargetTable)
						assert.Equal(t, buyerID, *log.ActorID)
						assert.Equal(t, "10.1.1.1", log.IP)
						return nil
					})
			},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				require.NoError(t, err)
				assert.Equal(t, "10.00", report.CostPerLead.String())
				assert.False(t, report.IsAnomaly)
				assert.Nil(t, report.AnomalyReason)
				assert.Equal(t, buyerID, report.UserID)
				assert.Equal(t, 1, env.db.Commits)
			},
		},
		{
			name:   "gasto dobrou em relação ao dia anterior",
			caller: buyer,
			req: func() domain.SubmitReportRequest {
				req := baseReq
				req.Spend = domain.MustMoney("200.00")
				req.LeadsCount = 8
				return req
			},
			setup: func(env *testEnv) {
				previous := &domain.AdSpendDaily{ID: uuid.New(), Date: day.AddDays(-1), Spend: domain.MustMoney("100.00"), LeadsCount: 10}

				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
				env.spends.EXPECT().GetByAccountAndDate(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().GetPrevious(gomock.Any(), gomock.Any(), account.ID, day).Return(previous, nil)
				env.spends.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ postgres.Queryer, report *domain.AdSpendDaily) error {
						assert.True(t, report.IsAnomaly)
						return nil
					})
				env.audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				require.NoError(t, err)
				assert.True(t, report.IsAnomaly)
				require.NotNil(t, report.AnomalyReason)
				assert.Equal(t, "SPEND_CHANGE_100.00%", *report.AnomalyReason)
				assert.Equal(t, "25.00", report.CostPerLead.String())
			},
		},
		{
			name:   "sem leads",
			caller: buyer,
			req: func() domain.SubmitReportRequest {
				req := baseReq
				req.Spend = domain.MustMoney("120.00")
				req.LeadsCount = 0
				return req
			},
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
				env.spends.EXPECT().GetByAccountAndDate(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().GetPrevious(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				env.audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				require.NoError(t, err)
				assert.True(t, report.IsAnomaly)
				assert.Equal(t, "LEADS_COUNT_ZERO", *report.AnomalyReason)
				assert.Equal(t, "0.00", report.CostPerLead.String())
			},
		},
		{
			name:   "gasto arredondado para duas casas",
			caller: buyer,
			req: func() domain.SubmitReportRequest {
				req := baseReq
				req.Spend = domain.Money{Decimal: decimal.RequireFromString("10.005")}
				req.LeadsCount = 1
				return req
			},
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
				env.spends.EXPECT().GetByAccountAndDate(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().GetPrevious(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				env.audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				require.NoError(t, err)
				assert.Equal(t, "10.01", report.Spend.String())
			},
		},
		{
			name:   "relatório duplicado no pre-check",
			caller: buyer,
			req:    func() domain.SubmitReportRequest { return baseReq },
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
				env.spends.EXPECT().GetByAccountAndDate(gomock.Any(), gomock.Any(), account.ID, day).
					Return(&domain.AdSpendDaily{ID: uuid.New()}, nil)
			},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				assertAPIError(t, err, apiErrors.ErrInvalidStatus, http.StatusConflict)
				var apiErr *apiErrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "同一广告账户该日期的日报已存在", apiErr.Message)
				assert.Equal(t, 1, env.db.Rollbacks)
			},
		},
		{
			name:   "relatório duplicado pela constraint",
			caller: buyer,
			req:    func() domain.SubmitReportRequest { return baseReq },
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
				env.spends.EXPECT().GetByAccountAndDate(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().GetPrevious(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: "23505", Constraint: "uq_ad_spend_daily_account_date"})
			},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				assertAPIError(t, err, apiErrors.ErrInvalidStatus, http.StatusConflict)
				assert.Equal(t, 0, env.db.Commits)
			},
		},
		{
			name:   "conta de outro comprador",
			caller: &domain.Caller{ID: uuid.New(), Role: domain.RoleMediaBuyer},
			req:    func() domain.SubmitReportRequest { return baseReq },
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
			},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				assertAPIError(t, err, apiErrors.ErrPermissionDenied, http.StatusForbidden)
			},
		},
		{
			name:   "data_operator envia para qualquer conta",
			caller: &domain.Caller{ID: uuid.New(), Role: domain.RoleDataOperator},
			req:    func() domain.SubmitReportRequest { return baseReq },
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
				env.spends.EXPECT().GetByAccountAndDate(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().GetPrevious(gomock.Any(), gomock.Any(), account.ID, day).Return(nil, nil)
				env.spends.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				env.audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				require.NoError(t, err)
			},
		},
		{
			name:   "conta inexistente",
			caller: buyer,
			req:    func() domain.SubmitReportRequest { return baseReq },
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(nil, nil)
			},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				assertAPIError(t, err, apiErrors.ErrNotFound, http.StatusNotFound)
			},
		},
		{
			name:   "gasto negativo",
			caller: buyer,
			req: func() domain.SubmitReportRequest {
				req := baseReq
				req.Spend = domain.MustMoney("-0.01")
				return req
			},
			setup: func(env *testEnv) {},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				assertAPIError(t, err, apiErrors.ErrInvalidParam, http.StatusUnprocessableEntity)
			},
		},
		{
			name:   "gasto acima do teto",
			caller: buyer,
			req: func() domain.SubmitReportRequest {
				req := baseReq
				req.Spend = domain.MustMoney("10000000.01")
				return req
			},
			setup: func(env *testEnv) {},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				assertAPIError(t, err, apiErrors.ErrInvalidParam, http.StatusUnprocessableEntity)
			},
		},
		{
			name:   "leads acima do teto",
			caller: buyer,
			req: func() domain.SubmitReportRequest {
				req := baseReq
				req.LeadsCount = 1_000_001
				return req
			},
			setup: func(env *testEnv) {},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				assertAPIError(t, err, apiErrors.ErrInvalidParam, http.StatusUnprocessableEntity)
			},
		},
		{
			name:   "sem data",
			caller: buyer,
			req: func() domain.SubmitReportRequest {
				req := baseReq
				req.Date = domain.Date{}
				return req
			},
			setup: func(env *testEnv) {},
			validate: func(t *testing.T, env *testEnv, report *domain.AdSpendDaily, err error) {
				assertAPIError(t, err, apiErrors.ErrInvalidParam, http.StatusUnprocessableEntity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)

			report, err := env.svc.SubmitReport(context.Background(), tt.caller, tt.req())
			tt.validate(t, env, report, err)
		})
	}
}

func TestService_GetReport(t *testing.T) {
	owner := uuid.New()
	report := &domain.AdSpendDaily{
		ID:        uuid.New(),
		Ownership: domain.Ownership{AssignedUserID: &owner, AccountManagerID: uuid.New()},
	}

	tests := []struct {
		name     string
		caller   *domain.Caller
		setup    func(env *testEnv)
		wantCode string
	}{
		{
			name:   "dono vê o relatório",
			caller: &domain.Caller{ID: owner, Role: domain.RoleMediaBuyer},
			setup: func(env *testEnv) {
				env.spends.EXPECT().GetByID(gomock.Any(), gomock.Any(), report.ID).Return(report, nil)
			},
		},
		{
			name:   "outro comprador recebe PERMISSION_DENIED",
			caller: &domain.Caller{ID: uuid.New(), Role: domain.RoleTrader},
			setup: func(env *testEnv) {
				env.spends.EXPECT().GetByID(gomock.Any(), gomock.Any(), report.ID).Return(report, nil)
			},
			wantCode: apiErrors.ErrPermissionDenied,
		},
		{
			name:   "gerente de outro projeto recebe PERMISSION_DENIED",
			caller: &domain.Caller{ID: uuid.New(), Role: domain.RoleAccountManager},
			setup: func(env *testEnv) {
				env.spends.EXPECT().GetByID(gomock.Any(), gomock.Any(), report.ID).Return(report, nil)
			},
			wantCode: apiErrors.ErrPermissionDenied,
		},
		{
			name:   "inexistente",
			caller: &domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin},
			setup: func(env *testEnv) {
				env.spends.EXPECT().GetByID(gomock.Any(), gomock.Any(), report.ID).Return(nil, nil)
			},
			wantCode: apiErrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)

			got, err := env.svc.GetReport(context.Background(), tt.caller, report.ID)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, report.ID, got.ID)
				return
			}

			var apiErr *apiErrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestService_ListReportsAppliesVisibility(t *testing.T) {
	buyer := &domain.Caller{ID: uuid.New(), Role: domain.RoleMediaBuyer}
	filter := domain.AdSpendFilter{Page: domain.NewPage(1, 20)}

	env := newTestEnv(t)
	env.spends.EXPECT().
		List(gomock.Any(), gomock.Any(), domain.Visibility{Scope: domain.ScopeAssignedAccounts, UserID: buyer.ID}, filter).
		Return([]*domain.AdSpendDaily{}, 0, nil)

	items, total, err := env.svc.ListReports(context.Background(), buyer, filter)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, total)
}
