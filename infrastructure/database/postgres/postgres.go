package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/vfg2006/adops-finance-api/internal/config"
)

// Transactor executa funções dentro de uma transação. Todo write de domínio e
// o respectivo audit log passam pelo mesmo Queryer recebido em fn.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(q Queryer) error) error
	Reader() Queryer
}

type Conn interface {
	Transactor
	Close() error
	Ping(ctx context.Context) error
}

type Connection struct {
	*sqlx.DB
}

func NewConnection(ctx context.Context, cfg config.Database) (*Connection, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Connection{DB: db}, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Reader devolve o pool para leituras fora de transação
func (c *Connection) Reader() Queryer {
	return c.DB
}

// RunInTransaction faz commit se fn retornar nil e rollback em erro ou panic.
// Cancelar o ctx aborta a transação.
func (c *Connection) RunInTransaction(ctx context.Context, fn func(q Queryer) error) error {
	tx, err := c.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
