// Package postgrestest fornece um Transactor em memória para testes de usecases.
package postgrestest

import (
	"context"
	"sync"

	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
)

// Transactor serializa as transações com um mutex, imitando o lock de linha
// do banco, e entrega um Queryer nulo para os repositórios mockados.
type Transactor struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

func New() *Transactor {
	return &Transactor{}
}

func (t *Transactor) RunInTransaction(ctx context.Context, fn func(q postgres.Queryer) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fn(nil); err != nil {
		t.Rollbacks++
		return err
	}

	t.Commits++
	return nil
}

func (t *Transactor) Reader() postgres.Queryer {
	return nil
}
