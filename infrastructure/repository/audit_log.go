package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

const (
	auditLogsTable   = "audit_logs"
	auditLogsColumns = "id, actor_id, action, target_table, target_id, before_data, after_data, ip, created_at"
)

// AuditLogRepository só insere e lista, o audit log nunca é alterado
type AuditLogRepository interface {
	Insert(ctx context.Context, q postgres.Queryer, entry *domain.AuditLog) error
	List(ctx context.Context, q postgres.Queryer, filter domain.AuditLogFilter) ([]*domain.AuditLog, int, error)
}

type auditLogRepository struct{}

func NewAuditLogRepository() AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Insert(ctx context.Context, q postgres.Queryer, entry *domain.AuditLog) error {
	_, err := exec(ctx, q, psql.
		Insert(auditLogsTable).
		Columns("id", "actor_id", "action", "target_table", "target_id", "before_data", "after_data", "ip", "created_at").
		Values(entry.ID, entry.ActorID, entry.Action, entry.TargetTable, entry.TargetID,
			entry.BeforeData, entry.AfterData, entry.IP, entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *auditLogRepository) List(ctx context.Context, q postgres.Queryer, filter domain.AuditLogFilter) ([]*domain.AuditLog, int, error) {
	base := func(columns ...string) squirrel.SelectBuilder {
		b := psql.Select(columns...).From(auditLogsTable)

		if filter.TargetTable != nil {
			b = b.Where(squirrel.Eq{"target_table": *filter.TargetTable})
		}
		if filter.TargetID != nil {
			b = b.Where(squirrel.Eq{"target_id": *filter.TargetID})
		}
		if filter.ActorID != nil {
			b = b.Where(squirrel.Eq{"actor_id": *filter.ActorID})
		}
		if filter.Action != nil {
			b = b.Where(squirrel.Eq{"action": *filter.Action})
		}
		return b
	}

	logs, total, err := paginate[domain.AuditLog](ctx, q, base, auditLogsColumns, "created_at DESC, id ASC", filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}
