package authorizing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       domain.Role
		permission string
		expected   bool
	}{
		{"admin tem qualquer permissão", domain.RoleAdmin, PermReconciliation, true},
		{"admin permissão inexistente", domain.RoleAdmin, "qualquer:coisa", true},
		{"finance gerencia reconciliação", domain.RoleFinance, PermReconciliation, true},
		{"finance não cria conta", domain.RoleFinance, PermAccountCreate, false},
		{"data_operator envia relatório", domain.RoleDataOperator, PermReportSubmit, true},
		{"data_operator não aprova topup", domain.RoleDataOperator, PermTopupApprove, false},
		{"account_manager lê canais", domain.RoleAccountManager, PermChannelRead, true},
		{"media_buyer solicita topup", domain.RoleMediaBuyer, PermTopupRequest, true},
		{"media_buyer não lê projetos", domain.RoleMediaBuyer, PermProjectRead, false},
		{"trader lê contas", domain.RoleTrader, PermAccountRead, true},
		{"trader não envia gasto", domain.RoleTrader, PermSpendSubmit, false},
		{"trader não solicita topup", domain.RoleTrader, PermTopupRequest, false},
		{"manager aprova topup", domain.RoleManager, PermTopupApprove, true},
		{"manager não confirma topup", domain.RoleManager, PermTopupConfirm, false},
		{"papel desconhecido", domain.Role("ghost"), PermAccountRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestPermissionsFor_ReturnsSortedCopy(t *testing.T) {
	perms := PermissionsFor(domain.RoleMediaBuyer)
	assert.Equal(t, []string{PermAccountRead, PermReportSubmit, PermSpendSubmit, PermTopupRequest}, perms)

	perms[0] = "alterado"
	assert.Equal(t, PermAccountRead, PermissionsFor(domain.RoleMediaBuyer)[0])
}

func TestVisibilityFor(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		role     domain.Role
		expected domain.VisibilityScope
	}{
		{domain.RoleAdmin, domain.ScopeAll},
		{domain.RoleFinance, domain.ScopeAll},
		{domain.RoleDataOperator, domain.ScopeAll},
		{domain.RoleManager, domain.ScopeAll},
		{domain.RoleAccountManager, domain.ScopeManagedProjects},
		{domain.RoleMediaBuyer, domain.ScopeAssignedAccounts},
		{domain.RoleTrader, domain.ScopeAssignedAccounts},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			vis := VisibilityFor(&domain.Caller{ID: id, Role: tt.role})
			assert.Equal(t, tt.expected, vis.Scope)
			if tt.expected != domain.ScopeAll {
				assert.Equal(t, id, vis.UserID)
			}
		})
	}
}

func TestCanSee(t *testing.T) {
	self := uuid.New()
	other := uuid.New()

	owned := domain.Ownership{AssignedUserID: &self, AccountManagerID: self}
	foreign := domain.Ownership{AssignedUserID: &other, AccountManagerID: other}
	unassigned := domain.Ownership{AccountManagerID: other}

	tests := []struct {
		name     string
		role     domain.Role
		owner    domain.Ownership
		expected bool
	}{
		{"finance vê tudo", domain.RoleFinance, foreign, true},
		{"account_manager vê próprio projeto", domain.RoleAccountManager, owned, true},
		{"account_manager não vê projeto alheio", domain.RoleAccountManager, foreign, false},
		{"media_buyer vê conta atribuída", domain.RoleMediaBuyer, owned, true},
		{"media_buyer não vê conta alheia", domain.RoleMediaBuyer, foreign, false},
		{"media_buyer não vê conta sem responsável", domain.RoleMediaBuyer, unassigned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &domain.Caller{ID: self, Role: tt.role}
			assert.Equal(t, tt.expected, CanSee(caller, tt.owner))
		})
	}
}

func TestCanSeeProject(t *testing.T) {
	self := uuid.New()
	project := &domain.Project{ID: uuid.New(), AccountManagerID: uuid.New()}

	t.Run("admin não consulta contas", func(t *testing.T) {
		ok, err := CanSeeProject(&domain.Caller{ID: self, Role: domain.RoleAdmin}, project, func() (bool, error) {
			t.Fatal("não deveria consultar")
			return false, nil
		})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("account_manager de outro projeto", func(t *testing.T) {
		ok, err := CanSeeProject(&domain.Caller{ID: self, Role: domain.RoleAccountManager}, project, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("media_buyer depende das contas atribuídas", func(t *testing.T) {
		ok, err := CanSeeProject(&domain.Caller{ID: self, Role: domain.RoleMediaBuyer}, project, func() (bool, error) {
			return true, nil
		})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("erro da consulta é propagado", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := CanSeeProject(&domain.Caller{ID: self, Role: domain.RoleTrader}, project, func() (bool, error) {
			return false, boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
