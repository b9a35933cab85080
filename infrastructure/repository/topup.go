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
	topupsTable   = "topups t"
	topupsColumns = "t.id, t.project_id, t.ad_account_id, t.channel_id, t.requested_by, t.amount, t.service_fee_amount, " +
		"t.status, t.remark, t.created_by, t.updated_by, t.created_at, t.updated_at, " +
		ownershipColumns
)

type TopupRepository interface {
	// GetByID com forUpdate=true executa SELECT ... FOR UPDATE na linha do topup
	GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID, forUpdate bool) (*domain.Topup, error)
	List(ctx context.Context, q postgres.Queryer, vis domain.Visibility, filter domain.TopupFilter) ([]*domain.Topup, int, error)
	Create(ctx context.Context, q postgres.Queryer, topup *domain.Topup) error
	UpdateStatus(ctx context.Context, q postgres.Queryer, topup *domain.Topup) error
}

type topupRepository struct{}

func NewTopupRepository() TopupRepository {
	return &topupRepository{}
}

func (r *topupRepository) selectTopup(columns ...string) squirrel.SelectBuilder {
	return psql.
		Select(columns...).
		From(topupsTable).
		Join("ad_accounts a ON a.id = t.ad_account_id").
		Join(accountsJoin)
}

func (r *topupRepository) GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID, forUpdate bool) (*domain.Topup, error) {
	b := r.selectTopup(topupsColumns).Where(squirrel.Eq{"t.id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE OF t")
	}
	return getOne[domain.Topup](ctx, q, b)
}

func (r *topupRepository) List(
	ctx context.Context,
	q postgres.Queryer,
	vis domain.Visibility,
	filter domain.TopupFilter,
) ([]*domain.Topup, int, error) {
	base := func(columns ...string) squirrel.SelectBuilder {
		b := applyVisibility(r.selectTopup(columns...), vis)

		if filter.Status != nil {
			b = b.Where(squirrel.Eq{"t.status": *filter.Status})
		}
		if filter.AdAccountID != nil {
			b = b.Where(squirrel.Eq{"t.ad_account_id": *filter.AdAccountID})
		}
		if filter.ProjectID != nil {
			b = b.Where(squirrel.Eq{"t.project_id": *filter.ProjectID})
		}
		return b
	}

	topups, total, err := paginate[domain.Topup](ctx, q, base, topupsColumns, "t.created_at DESC", filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list topups: %w", err)
	}
	return topups, total, nil
}

func (r *topupRepository) Create(ctx context.Context, q postgres.Queryer, topup *domain.Topup) error {
	_, err := exec(ctx, q, psql.
		Insert("topups").
		Columns("id", "project_id", "ad_account_id", "channel_id", "requested_by", "amount", "service_fee_amount",
			"status", "remark", "created_by", "updated_by", "created_at", "updated_at").
		Values(topup.ID, topup.ProjectID, topup.AdAccountID, topup.ChannelID, topup.RequestedBy, topup.Amount, topup.ServiceFeeAmount,
			topup.Status, topup.Remark, topup.CreatedBy, topup.UpdatedBy, topup.CreatedAt, topup.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert topup: %w", err)
	}
	return nil
}

func (r *topupRepository) UpdateStatus(ctx context.Context, q postgres.Queryer, topup *domain.Topup) error {
	_, err := exec(ctx, q, psql.
		Update("topups").
		SetMap(map[string]interface{}{
			"status":             topup.Status,
			"service_fee_amount": topup.ServiceFeeAmount,
			"remark":             topup.Remark,
			"updated_by":         topup.UpdatedBy,
			"updated_at":         topup.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": topup.ID}))
	if err != nil {
		return fmt.Errorf("update topup: %w", err)
	}
	return nil
}
