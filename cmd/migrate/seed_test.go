package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres/postgrestest"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository/mocks"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdmin(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(users *mocks.MockUserRepository, audits *mocks.MockAuditLogRepository)
		validate func(t *testing.T, created bool, err error)
	}{
		{
			name: "cria admin com e-mail normalizado",
			setup: func(users *mocks.MockUserRepository, audits *mocks.MockAuditLogRepository) {
				users.EXPECT().GetByEmail(gomock.Any(), gomock.Any(), "root@example.com").Return(nil, nil)
				users.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ postgres.Queryer, user *domain.User) error {
						assert.Equal(t, domain.RoleAdmin, user.Role)
						assert.True(t, user.IsActive)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3nha-forte")))
						return nil
					})
				audits.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ postgres.Queryer, log *domain.AuditLog) error {
						assert.Equal(t, actionSeedAdmin, log.Action)
						assert.Nil(t, log.ActorID)
						return nil
					})
			},
			validate: func(t *testing.T, created bool, err error) {
				require.NoError(t, err)
				assert.True(t, created)
			},
		},
		{
			name: "e-mail já cadastrado não faz nada",
			setup: func(users *mocks.MockUserRepository, audits *mocks.MockAuditLogRepository) {
				users.EXPECT().GetByEmail(gomock.Any(), gomock.Any(), "root@example.com").Return(&domain.User{}, nil)
			},
			validate: func(t *testing.T, created bool, err error) {
				require.NoError(t, err)
				assert.False(t, created)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mocks.NewMockUserRepository(ctrl)
			audits := mocks.NewMockAuditLogRepository(ctrl)
			db := postgrestest.New()
			tt.setup(users, audits)

			created, err := seedAdmin(context.Background(), db, users, auditing.NewService(audits, db),
				" Root@Example.com ", "Root", "s3nha-forte")
			tt.validate(t, created, err)
		})
	}
}
