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
	reconciliationsTable   = "reconciliations rc"
	reconciliationsColumns = "rc.id, rc.ad_account_id, rc.daily_spend_id, rc.finance_txn_id, rc.match_type, rc.status, " +
		"rc.amount_diff, rc.date_diff, rc.reviewed_by, rc.reviewed_at, rc.review_notes, " +
		"rc.created_by, rc.updated_by, rc.created_at, rc.updated_at, " +
		ownershipColumns
)

type ReconciliationRepository interface {
	GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID, forUpdate bool) (*domain.Reconciliation, error)
	List(ctx context.Context, q postgres.Queryer, vis domain.Visibility, filter domain.ReconciliationFilter) ([]*domain.Reconciliation, int, error)
	Create(ctx context.Context, q postgres.Queryer, rec *domain.Reconciliation) error
	UpdateReview(ctx context.Context, q postgres.Queryer, rec *domain.Reconciliation) error
}

type reconciliationRepository struct{}

func NewReconciliationRepository() ReconciliationRepository {
	return &reconciliationRepository{}
}

func (r *reconciliationRepository) selectReconciliation(columns ...string) squirrel.SelectBuilder {
	return psql.
		Select(columns...).
		From(reconciliationsTable).
		Join("ad_accounts a ON a.id = rc.ad_account_id").
		Join(accountsJoin)
}

func (r *reconciliationRepository) GetByID(
	ctx context.Context,
	q postgres.Queryer,
	id uuid.UUID,
	forUpdate bool,
) (*domain.Reconciliation, error) {
	b := r.selectReconciliation(reconciliationsColumns).Where(squirrel.Eq{"rc.id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE OF rc")
	}
	return getOne[domain.Reconciliation](ctx, q, b)
}

func (r *reconciliationRepository) List(
	ctx context.Context,
	q postgres.Queryer,
	vis domain.Visibility,
	filter domain.ReconciliationFilter,
) ([]*domain.Reconciliation, int, error) {
	base := func(columns ...string) squirrel.SelectBuilder {
		b := applyVisibility(r.selectReconciliation(columns...), vis)

		if filter.Status != nil {
			b = b.Where(squirrel.Eq{"rc.status": *filter.Status})
		}
		if filter.MatchType != nil {
			b = b.Where(squirrel.Eq{"rc.match_type": *filter.MatchType})
		}
		if filter.AdAccountID != nil {
			b = b.Where(squirrel.Eq{"rc.ad_account_id": *filter.AdAccountID})
		}
		return b
	}

	recs, total, err := paginate[domain.Reconciliation](ctx, q, base, reconciliationsColumns, "rc.created_at DESC, rc.id ASC", filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list reconciliations: %w", err)
	}
	return recs, total, nil
}

func (r *reconciliationRepository) Create(ctx context.Context, q postgres.Queryer, rec *domain.Reconciliation) error {
	_, err := exec(ctx, q, psql.
		Insert("reconciliations").
		Columns("id", "ad_account_id", "daily_spend_id", "finance_txn_id", "match_type", "status",
			"amount_diff", "date_diff", "created_by", "updated_by", "created_at", "updated_at").
		Values(rec.ID, rec.AdAccountID, rec.DailySpendID, rec.FinanceTxnID, rec.MatchType, rec.Status,
			rec.AmountDiff, rec.DateDiff, rec.CreatedBy, rec.UpdatedBy, rec.CreatedAt, rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert reconciliation: %w", err)
	}
	return nil
}

func (r *reconciliationRepository) UpdateReview(ctx context.Context, q postgres.Queryer, rec *domain.Reconciliation) error {
	_, err := exec(ctx, q, psql.
		Update("reconciliations").
		SetMap(map[string]interface{}{
			"status":       rec.Status,
			"reviewed_by":  rec.ReviewedBy,
			"reviewed_at":  rec.ReviewedAt,
			"review_notes": rec.ReviewNotes,
			"updated_by":   rec.UpdatedBy,
			"updated_at":   rec.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": rec.ID}))
	if err != nil {
		return fmt.Errorf("update reconciliation: %w", err)
	}
	return nil
}
