package ledger

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
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

type testEnv struct {
	svc      *Service
	ledgers  *mocks.MockLedgerRepository
	accounts *mocks.MockAccountRepository
	projects *mocks.MockProjectRepository
	channels *mocks.MockChannelRepository
	audits   *mocks.MockAuditLogRepository
	db       *postgrestest.Transactor
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	env := &testEnv{
		ledgers:  mocks.NewMockLedgerRepository(ctrl),
		accounts: mocks.NewMockAccountRepository(ctrl),
		projects: mocks.NewMockProjectRepository(ctrl),
		channels: mocks.NewMockChannelRepository(ctrl),
		audits:   mocks.NewMockAuditLogRepository(ctrl),
		db:       postgrestest.New(),
	}
	env.svc = NewService(env.ledgers, env.accounts, env.projects, env.channels, env.db,
		auditing.NewService(env.audits, env.db)).(*Service)
	return env
}

func TestService_CreateLedger(t *testing.T) {
	finance := &domain.Caller{ID: uuid.New(), Role: domain.RoleFinance, IP: "10.0.0.1"}
	account := &domain.AdAccount{ID: uuid.New(), ProjectID: uuid.New(), ChannelID: uuid.New()}
	otherProject := uuid.New()
	occurredAt := time.Date(2024, 5, 1, 15, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	base := func() domain.CreateLedgerRequest {
		return domain.CreateLedgerRequest{
			Type:        domain.LedgerTypeExpense,
			AdAccountID: &account.ID,
			Amount:      domain.MustMoney("102.00"),
			Currency:    "USD",
			OccurredAt:  occurredAt,
		}
	}

	tests := []struct {
		name     string
		req      func() domain.CreateLedgerRequest
		setup    func(env *testEnv)
		validate func(t *testing.T, env *testEnv, entry *domain.Ledger, err error)
	}{
		{
			name: "herda projeto e canal da conta",
			req:  base,
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
				env.ledgers.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				env.audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ postgres.Queryer, log *domain.AuditLog) error {
						assert.Equal(t, ActionCreate, log.Action)
						assert.Equal(t, domain.TableLedgers, log.TargetTable)
						assert.Equal(t, "10.0.0.1", log.IP)
						return nil
					})
			},
			validate: func(t *testing.T, env *testEnv, entry *domain.Ledger, err error) {
				require.NoError(t, err)
				assert.Equal(t, account.ProjectID, *entry.ProjectID)
				assert.Equal(t, account.ChannelID, *entry.ChannelID)
				assert.Equal(t, time.UTC, entry.OccurredAt.Location())
				assert.Equal(t, "2024-05-01", entry.OccurredOn().String())
			},
		},
		{
			name: "projeto divergente da conta",
			req: func() domain.CreateLedgerRequest {
				req := base()
				req.ProjectID = &otherProject
				return req
			},
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(account, nil)
			},
			validate: func(t *testing.T, env *testEnv, entry *domain.Ledger, err error) {
				assert.ErrorIs(t, err, ErrMismatch)
				assert.Equal(t, 1, env.db.Rollbacks)
			},
		},
		{
			name: "conta inexistente",
			req:  base,
			setup: func(env *testEnv) {
				env.accounts.EXPECT().GetByID(gomock.Any(), gomock.Any(), account.ID, false).Return(nil, nil)
			},
			validate: func(t *testing.T, env *testEnv, entry *domain.Ledger, err error) {
				var apiErr *apiErrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusNotFound, apiErr.HTTPStatus())
			},
		},
		{
			name: "sem conta valida o projeto",
			req: func() domain.CreateLedgerRequest {
				req := base()
				req.AdAccountID = nil
				req.ProjectID = &otherProject
				req.Type = domain.LedgerTypeIncome
				return req
			},
			setup: func(env *testEnv) {
				env.projects.EXPECT().GetByID(gomock.Any(), gomock.Any(), otherProject).Return(nil, nil)
			},
			validate: func(t *testing.T, env *testEnv, entry *domain.Ledger, err error) {
				assert.ErrorIs(t, err, ErrProjectNotFound)
			},
		},
		{
			name: "valor negativo",
			req: func() domain.CreateLedgerRequest {
				req := base()
				req.Amount = domain.MustMoney("-1.00")
				return req
			},
			setup: func(env *testEnv) {},
			validate: func(t *testing.T, env *testEnv, entry *domain.Ledger, err error) {
				var apiErr *apiErrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusUnprocessableEntity, apiErr.HTTPStatus())
				assert.Zero(t, env.db.Commits+env.db.Rollbacks)
			},
		},
		{
			name: "três casas decimais",
			req: func() domain.CreateLedgerRequest {
				req := base()
				req.Amount = domain.Money{Decimal: decimal.RequireFromString("1.001")}
				return req
			},
			setup: func(env *testEnv) {},
			validate: func(t *testing.T, env *testEnv, entry *domain.Ledger, err error) {
				var apiErr *apiErrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, MessageInvalidAmount, apiErr.Message)
			},
		},
		{
			name: "tipo desconhecido",
			req: func() domain.CreateLedgerRequest {
				req := base()
				req.Type = "transfer"
				return req
			},
			setup: func(env *testEnv) {},
			validate: func(t *testing.T, env *testEnv, entry *domain.Ledger, err error) {
				var apiErr *apiErrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, MessageInvalidType, apiErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)

			entry, err := env.svc.CreateLedger(context.Background(), finance, tt.req())
			tt.validate(t, env, entry, err)
		})
	}
}

func TestService_ListLedgersPassesFilter(t *testing.T) {
	env := newTestEnv(t)
	expense := domain.LedgerTypeExpense
	filter := domain.LedgerFilter{Type: &expense, Page: domain.NewPage(2, 50)}

	env.ledgers.EXPECT().List(gomock.Any(), gomock.Any(), filter).Return([]*domain.Ledger{{ID: uuid.New()}}, 51, nil)

	items, total, err := env.svc.ListLedgers(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 51, total)
}
