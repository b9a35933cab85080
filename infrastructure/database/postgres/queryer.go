package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Queryer é satisfeito tanto por *sqlx.DB quanto por *sqlx.Tx
type Queryer interface {
	sqlx.ExtContext
}

const uniqueViolation = "23505"

// Chaves de advisory lock por processo em lote
const (
	LockKeyReconciliation int64 = 7_310_001
)

// AdvisoryXactLock bloqueia até obter o lock, liberado no fim da transação
func AdvisoryXactLock(ctx context.Context, q Queryer, key int64) error {
	_, err := q.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key)
	return err
}

// IsUniqueViolation indica violação de UNIQUE (SQLSTATE 23505)
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// ConstraintName devolve o nome da constraint violada, se houver
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
