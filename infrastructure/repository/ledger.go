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
	ledgersTable   = "ledgers l"
	ledgersColumns = "l.id, l.type, l.project_id, l.channel_id, l.ad_account_id, l.amount, l.currency, " +
		"l.occurred_at, l.remark, l.created_by, l.updated_by, l.created_at, l.updated_at"
)

type LedgerRepository interface {
	GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.Ledger, error)
	List(ctx context.Context, q postgres.Queryer, filter domain.LedgerFilter) ([]*domain.Ledger, int, error)
	// ListUnreconciled devolve lançamentos das contas informadas ainda não usados em nenhuma reconciliação
	ListUnreconciled(ctx context.Context, q postgres.Queryer, accountIDs []uuid.UUID) ([]*domain.Ledger, error)
	Create(ctx context.Context, q postgres.Queryer, ledger *domain.Ledger) error
}

type ledgerRepository struct{}

func NewLedgerRepository() LedgerRepository {
	return &ledgerRepository{}
}

func (r *ledgerRepository) GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.Ledger, error) {
	return getOne[domain.Ledger](ctx, q, psql.
		Select(ledgersColumns).
		From(ledgersTable).
		Where(squirrel.Eq{"l.id": id}))
}

func (r *ledgerRepository) List(ctx context.Context, q postgres.Queryer, filter domain.LedgerFilter) ([]*domain.Ledger, int, error) {
	base := func(columns ...string) squirrel.SelectBuilder {
		b := psql.Select(columns...).From(ledgersTable)

		if filter.Type != nil {
			b = b.Where(squirrel.Eq{"l.type": *filter.Type})
		}
		if filter.AdAccountID != nil {
			b = b.Where(squirrel.Eq{"l.ad_account_id": *filter.AdAccountID})
		}
		if filter.From != nil {
			b = b.Where(squirrel.GtOrEq{"l.occurred_at": *filter.From})
		}
		if filter.To != nil {
			b = b.Where(squirrel.Lt{"l.occurred_at": *filter.To})
		}
		return b
	}

	ledgers, total, err := paginate[domain.Ledger](ctx, q, base, ledgersColumns, "l.occurred_at DESC", filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledgers: %w", err)
	}
	return ledgers, total, nil
}

func (r *ledgerRepository) ListUnreconciled(ctx context.Context, q postgres.Queryer, accountIDs []uuid.UUID) ([]*domain.Ledger, error) {
	if len(accountIDs) == 0 {
		return []*domain.Ledger{}, nil
	}

	ledgers, err := selectAll[domain.Ledger](ctx, q, psql.
		Select(ledgersColumns).
		From(ledgersTable).
		Where(squirrel.Eq{"l.ad_account_id": accountIDs}).
		Where("NOT EXISTS (SELECT 1 FROM reconciliations rc WHERE rc.finance_txn_id = l.id)").
		OrderBy("l.occurred_at ASC", "l.id ASC"))
	if err != nil {
		return nil, fmt.Errorf("list unreconciled ledgers: %w", err)
	}
	return ledgers, nil
}

func (r *ledgerRepository) Create(ctx context.Context, q postgres.Queryer, ledger *domain.Ledger) error {
	_, err := exec(ctx, q, psql.
		Insert("ledgers").
		Columns("id", "type", "project_id", "channel_id", "ad_account_id", "amount", "currency",
			"occurred_at", "remark", "created_by", "updated_by", "created_at", "updated_at").
		Values(ledger.ID, ledger.Type, ledger.ProjectID, ledger.ChannelID, ledger.AdAccountID, ledger.Amount, ledger.Currency,
			ledger.OccurredAt, ledger.Remark, ledger.CreatedBy, ledger.UpdatedBy, ledger.CreatedAt, ledger.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert ledger: %w", err)
	}
	return nil
}
