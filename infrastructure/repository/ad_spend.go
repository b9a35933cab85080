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
	adSpendTable   = "ad_spend_daily s"
	adSpendColumns = "s.id, s.ad_account_id, s.user_id, s.date, s.spend, s.leads_count, s.cost_per_lead, " +
		"s.is_anomaly, s.anomaly_reason, s.note, s.created_by, s.updated_by, s.created_at, s.updated_at, " +
		ownershipColumns
)

type AdSpendRepository interface {
	GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.AdSpendDaily, error)
	GetByAccountAndDate(ctx context.Context, q postgres.Queryer, accountID uuid.UUID, date domain.Date) (*domain.AdSpendDaily, error)
	// GetPrevious devolve o relatório mais recente da conta com data anterior a date
	GetPrevious(ctx context.Context, q postgres.Queryer, accountID uuid.UUID, date domain.Date) (*domain.AdSpendDaily, error)
	List(ctx context.Context, q postgres.Queryer, vis domain.Visibility, filter domain.AdSpendFilter) ([]*domain.AdSpendDaily, int, error)
	// ListUnreconciled devolve relatórios sem nenhuma reconciliação, em ordem de data e id
	ListUnreconciled(ctx context.Context, q postgres.Queryer) ([]*domain.AdSpendDaily, error)
	Create(ctx context.Context, q postgres.Queryer, spend *domain.AdSpendDaily) error
}

type adSpendRepository struct{}

func NewAdSpendRepository() AdSpendRepository {
	return &adSpendRepository{}
}

func (r *adSpendRepository) selectSpend(columns ...string) squirrel.SelectBuilder {
	return psql.
		Select(columns...).
		From(adSpendTable).
		Join("ad_accounts a ON a.id = s.ad_account_id").
		Join(accountsJoin)
}

func (r *adSpendRepository) GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.AdSpendDaily, error) {
	return getOne[domain.AdSpendDaily](ctx, q, r.selectSpend(adSpendColumns).Where(squirrel.Eq{"s.id": id}))
}

func (r *adSpendRepository) GetByAccountAndDate(
	ctx context.Context,
	q postgres.Queryer,
	accountID uuid.UUID,
	date domain.Date,
) (*domain.AdSpendDaily, error) {
	return getOne[domain.AdSpendDaily](ctx, q, r.selectSpend(adSpendColumns).
		Where(squirrel.Eq{"s.ad_account_id": accountID, "s.date": date}))
}

func (r *adSpendRepository) GetPrevious(
	ctx context.Context,
	q postgres.Queryer,
	accountID uuid.UUID,
	date domain.Date,
) (*domain.AdSpendDaily, error) {
	return getOne[domain.AdSpendDaily](ctx, q, r.selectSpend(adSpendColumns).
		Where(squirrel.Eq{"s.ad_account_id": accountID}).
		Where(squirrel.Lt{"s.date": date}).
		OrderBy("s.date DESC").
		Limit(1))
}

func (r *adSpendRepository) List(
	ctx context.Context,
	q postgres.Queryer,
	vis domain.Visibility,
	filter domain.AdSpendFilter,
) ([]*domain.AdSpendDaily, int, error) {
	base := func(columns ...string) squirrel.SelectBuilder {
		b := applyVisibility(r.selectSpend(columns...), vis)

		if filter.AdAccountID != nil {
			b = b.Where(squirrel.Eq{"s.ad_account_id": *filter.AdAccountID})
		}
		if filter.DateFrom != nil {
			b = b.Where(squirrel.GtOrEq{"s.date": *filter.DateFrom})
		}
		if filter.DateTo != nil {
			b = b.Where(squirrel.LtOrEq{"s.date": *filter.DateTo})
		}
		if filter.IsAnomaly != nil {
			b = b.Where(squirrel.Eq{"s.is_anomaly": *filter.IsAnomaly})
		}
		return b
	}

	spends, total, err := paginate[domain.AdSpendDaily](ctx, q, base, adSpendColumns, "s.date DESC, s.created_at DESC", filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list ad spend: %w", err)
	}
	return spends, total, nil
}

func (r *adSpendRepository) ListUnreconciled(ctx context.Context, q postgres.Queryer) ([]*domain.AdSpendDaily, error) {
	spends, err := selectAll[domain.AdSpendDaily](ctx, q, r.selectSpend(adSpendColumns).
		Where("NOT EXISTS (SELECT 1 FROM reconciliations rc WHERE rc.daily_spend_id = s.id)").
		OrderBy("s.date ASC", "s.id ASC"))
	if err != nil {
		return nil, fmt.Errorf("list unreconciled ad spend: %w", err)
	}
	return spends, nil
}

func (r *adSpendRepository) Create(ctx context.Context, q postgres.Queryer, spend *domain.AdSpendDaily) error {
	_, err := exec(ctx, q, psql.
		Insert("ad_spend_daily").
		Columns("id", "ad_account_id", "user_id", "date", "spend", "leads_count", "cost_per_lead",
			"is_anomaly", "anomaly_reason", "note", "created_by", "updated_by", "created_at", "updated_at").
		Values(spend.ID, spend.AdAccountID, spend.UserID, spend.Date, spend.Spend, spend.LeadsCount, spend.CostPerLead,
			spend.IsAnomaly, spend.AnomalyReason, spend.Note, spend.CreatedBy, spend.UpdatedBy, spend.CreatedAt, spend.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert ad spend: %w", err)
	}
	return nil
}
