package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// colunas de ownership usadas por domain.Ownership; exigem os aliases a (ad_accounts) e p (projects)
const ownershipColumns = "a.assigned_user_id AS owner_assigned_user_id, p.account_manager_id AS owner_account_manager_id"

// applyVisibility restringe a query conforme o escopo do usuário. A query
// precisa ter ad_accounts como "a" e projects como "p".
func applyVisibility(b squirrel.SelectBuilder, vis domain.Visibility) squirrel.SelectBuilder {
	switch vis.Scope {
	case domain.ScopeManagedProjects:
		return b.Where(squirrel.Eq{"p.account_manager_id": vis.UserID})
	case domain.ScopeAssignedAccounts:
		return b.Where(squirrel.Eq{"a.assigned_user_id": vis.UserID})
	default:
		return b
	}
}

// getOne devolve nil, nil quando não há linha
func getOne[T any](ctx context.Context, q postgres.Queryer, b squirrel.Sqlizer) (*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	var dest T
	if err := sqlx.GetContext(ctx, q, &dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &dest, nil
}

func selectAll[T any](ctx context.Context, q postgres.Queryer, b squirrel.Sqlizer) ([]*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	dest := make([]*T, 0)
	if err := sqlx.SelectContext(ctx, q, &dest, query, args...); err != nil {
		return nil, err
	}

	return dest, nil
}

func count(ctx context.Context, q postgres.Queryer, b squirrel.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	if err := sqlx.GetContext(ctx, q, &total, query, args...); err != nil {
		return 0, err
	}

	return total, nil
}

func exec(ctx context.Context, q postgres.Queryer, b squirrel.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// paginate executa a contagem e a página usando o mesmo builder de filtros
func paginate[T any](
	ctx context.Context,
	q postgres.Queryer,
	base func(columns ...string) squirrel.SelectBuilder,
	columns string,
	orderBy string,
	page domain.Page,
) ([]*T, int, error) {
	total, err := count(ctx, q, base("COUNT(*)"))
	if err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if total == 0 {
		return []*T{}, 0, nil
	}

	items, err := selectAll[T](ctx, q, base(columns).
		OrderBy(orderBy).
		Limit(page.Limit()).
		Offset(page.Offset()))
	if err != nil {
		return nil, 0, fmt.Errorf("select: %w", err)
	}

	return items, total, nil
}
