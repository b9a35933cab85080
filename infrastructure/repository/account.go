package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

const (
	accountsTable   = "ad_accounts a"
	accountsJoin    = "projects p ON p.id = a.project_id"
	accountsColumns = "a.id, a.name, a.project_id, a.channel_id, a.assigned_user_id, a.status, a.dead_reason, " +
		"a.created_by, a.updated_by, a.created_at, a.updated_at, p.account_manager_id AS project_account_manager_id"
)

type AccountRepository interface {
	// GetByID com forUpdate=true trava a linha da conta até o fim da transação
	GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID, forUpdate bool) (*domain.AdAccount, error)
	List(ctx context.Context, q postgres.Queryer, vis domain.Visibility, filter domain.AdAccountFilter) ([]*domain.AdAccount, int, error)
	Create(ctx context.Context, q postgres.Queryer, account *domain.AdAccount) error
	Update(ctx context.Context, q postgres.Queryer, account *domain.AdAccount) error
}

type accountRepository struct{}

func NewAccountRepository() AccountRepository {
	return &accountRepository{}
}

func (r *accountRepository) GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID, forUpdate bool) (*domain.AdAccount, error) {
	b := psql.
		Select(accountsColumns).
		From(accountsTable).
		Join(accountsJoin).
		Where(squirrel.Eq{"a.id": id})

	if forUpdate {
		b = b.Suffix("FOR UPDATE OF a")
	}

	return getOne[domain.AdAccount](ctx, q, b)
}

func (r *accountRepository) List(
	ctx context.Context,
	q postgres.Queryer,
	vis domain.Visibility,
	filter domain.AdAccountFilter,
) ([]*domain.AdAccount, int, error) {
	base := func(columns ...string) squirrel.SelectBuilder {
		b := applyVisibility(psql.Select(columns...).From(accountsTable).Join(accountsJoin), vis)

		if filter.Status != nil {
			b = b.Where(squirrel.Eq{"a.status": *filter.Status})
		}
		if filter.ProjectID != nil {
			b = b.Where(squirrel.Eq{"a.project_id": *filter.ProjectID})
		}
		if filter.ChannelID != nil {
			b = b.Where(squirrel.Eq{"a.channel_id": *filter.ChannelID})
		}
		return b
	}

	accounts, total, err := paginate[domain.AdAccount](ctx, q, base, accountsColumns, "a.created_at DESC", filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list ad accounts: %w", err)
	}
	return accounts, total, nil
}

func (r *accountRepository) Create(ctx context.Context, q postgres.Queryer, account *domain.AdAccount) error {
	_, err := exec(ctx, q, psql.
		Insert("ad_accounts").
		Columns("id", "name", "project_id", "channel_id", "assigned_user_id", "status", "dead_reason",
			"created_by", "updated_by", "created_at", "updated_at").
		Values(account.ID, account.Name, account.ProjectID, account.ChannelID, account.AssignedUserID, account.Status,
			account.DeadReason, account.CreatedBy, account.UpdatedBy, account.CreatedAt, account.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert ad account: %w", err)
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, q postgres.Queryer, account *domain.AdAccount) error {
	_, err := exec(ctx, q, psql.
		Update("ad_accounts").
		SetMap(map[string]interface{}{
			"name":             account.Name,
			"assigned_user_id": account.AssignedUserID,
			"status":           account.Status,
			"dead_reason":      account.DeadReason,
			"updated_by":       account.UpdatedBy,
			"updated_at":       account.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": account.ID}))
	if err != nil {
		return fmt.Errorf("update ad account: %w", err)
	}
	return nil
}
