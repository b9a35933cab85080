package channel

import (
	"context"
	"errors"
	"net/http"
	"testing"

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

func newService(t *testing.T) (*Service, *mocks.MockChannelRepository, *mocks.MockAuditLogRepository) {
	ctrl := gomock.NewController(t)
	channels := mocks.NewMockChannelRepository(ctrl)
	audits := mocks.NewMockAuditLogRepository(ctrl)
	db := postgrestest.New()
	return NewService(channels, db, auditing.NewService(audits, db)).(*Service), channels, audits
}

func rawMoney(s string) domain.Money {
	return domain.Money{Decimal: decimal.RequireFromString(s)}
}

func TestService_CreateChannel(t *testing.T) {
	finance := &domain.Caller{ID: uuid.New(), Role: domain.RoleFinance}
	inactive := false

	tests := []struct {
		name     string
		req      domain.CreateChannelRequest
		setup    func(channels *mocks.MockChannelRepository, audits *mocks.MockAuditLogRepository)
		validate func(t *testing.T, channel *domain.Channel, err error)
	}{
		{
			name: "percentual válido",
			req:  domain.CreateChannelRequest{Name: "Meta", ServiceFeeType: domain.ChannelFeePercent, ServiceFeeValue: rawMoney("5")},
			setup: func(channels *mocks.MockChannelRepository, audits *mocks.MockAuditLogRepository) {
				channels.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ postgres.Queryer, log *domain.AuditLog) error {
						assert.Equal(t, ActionCreate, log.Action)
						assert.Contains(t, string(log.AfterData), `"service_fee_value":"5.00"`)
						return nil
					})
			},
			validate: func(t *testing.T, channel *domain.Channel, err error) {
				require.NoError(t, err)
				assert.True(t, channel.IsActive)
				assert.Equal(t, "5.00", channel.ServiceFeeValue.String())
			},
		},
		{
			name: "fixo criado inativo",
			req: domain.CreateChannelRequest{
				Name: "Google", ServiceFeeType: domain.ChannelFeeFixed, ServiceFeeValue: rawMoney("25.50"), IsActive: &inactive,
			},
			setup: func(channels *mocks.MockChannelRepository, audits *mocks.MockAuditLogRepository) {
				channels.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, channel *domain.Channel, err error) {
				require.NoError(t, err)
				assert.False(t, channel.IsActive)
			},
		},
		{
			name:  "percentual acima de 100",
			req:   domain.CreateChannelRequest{Name: "Meta", ServiceFeeType: domain.ChannelFeePercent, ServiceFeeValue: rawMoney("100.01")},
			setup: func(channels *mocks.MockChannelRepository, audits *mocks.MockAuditLogRepository) {},
			validate: func(t *testing.T, channel *domain.Channel, err error) {
				var apiErr *apiErrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusUnprocessableEntity, apiErr.HTTPStatus())
				assert.Equal(t, MessageInvalidPercent, apiErr.Message)
			},
		},
		{
			name:  "fixo com três casas",
			req:   domain.CreateChannelRequest{Name: "Meta", ServiceFeeType: domain.ChannelFeeFixed, ServiceFeeValue: rawMoney("1.005")},
			setup: func(channels *mocks.MockChannelRepository, audits *mocks.MockAuditLogRepository) {},
			validate: func(t *testing.T, channel *domain.Channel, err error) {
				var apiErr *apiErrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, MessageInvalidFixed, apiErr.Message)
			},
		},
		{
			name: "nome duplicado",
			req:  domain.CreateChannelRequest{Name: "Meta", ServiceFeeType: domain.ChannelFeeFixed, ServiceFeeValue: rawMoney("0")},
			setup: func(channels *mocks.MockChannelRepository, audits *mocks.MockAuditLogRepository) {
				channels.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			validate: func(t *testing.T, channel *domain.Channel, err error) {
				var apiErr *apiErrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusConflict, apiErr.HTTPStatus())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, channels, audits := newService(t)
			tt.setup(channels, audits)

			channel, err := svc.CreateChannel(context.Background(), finance, tt.req)
			tt.validate(t, channel, err)
		})
	}
}

func TestService_UpdateChannelValidatesCombinedFee(t *testing.T) {
	finance := &domain.Caller{ID: uuid.New(), Role: domain.RoleFinance}
	percent := domain.ChannelFeePercent

	svc, channels, _ := newService(t)
	current := &domain.Channel{
		ID:              uuid.New(),
		ServiceFeeType:  domain.ChannelFeeFixed,
		ServiceFeeValue: domain.MustMoney("250.00"),
		IsActive:        true,
	}
	channels.EXPECT().GetByID(gomock.Any(), gomock.Any(), current.ID).Return(current, nil)

	// fixo 250 vira percentual 250%: inválido
	_, err := svc.UpdateChannel(context.Background(), finance, current.ID, domain.UpdateChannelRequest{ServiceFeeType: &percent})

	var apiErr *apiErrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, MessageInvalidPercent, apiErr.Message)
}

func TestService_UpdateChannelDeactivates(t *testing.T) {
	finance := &domain.Caller{ID: uuid.New(), Role: domain.RoleFinance}
	inactive := false

	svc, channels, audits := newService(t)
	current := &domain.Channel{
		ID:              uuid.New(),
		Name:            "Meta",
		ServiceFeeType:  domain.ChannelFeePercent,
		ServiceFeeValue: domain.MustMoney("5.00"),
		IsActive:        true,
	}
	channels.EXPECT().GetByID(gomock.Any(), gomock.Any(), current.ID).Return(current, nil)
	channels.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ postgres.Queryer, log *domain.AuditLog) error {
			assert.Equal(t, ActionUpdate, log.Action)
			assert.Contains(t, string(log.BeforeData), `"is_active":true`)
			assert.Contains(t, string(log.AfterData), `"is_active":false`)
			return nil
		})

	updated, err := svc.UpdateChannel(context.Background(), finance, current.ID, domain.UpdateChannelRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestService_GetChannelNotFound(t *testing.T) {
	svc, channels, _ := newService(t)
	id := uuid.New()
	channels.EXPECT().GetByID(gomock.Any(), gomock.Any(), id).Return(nil, nil)

	_, err := svc.GetChannel(context.Background(), id)
	assert.ErrorIs(t, err, ErrChannelNotFound)
}
