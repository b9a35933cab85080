package auditing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrMissingCaller = errors.New("audit entry sem caller")

// Entry descreve uma mudança de estado. Before é nil em criações.
type Entry struct {
	Caller   *domain.Caller
	Action   string
	Table    string
	TargetID uuid.UUID
	Before   interface{}
	After    interface{}
}

type Auditor interface {
	// Record grava a entrada pelo mesmo Queryer da escrita de domínio. Erro aqui
	// precisa desfazer a transação.
	Record(ctx context.Context, q postgres.Queryer, entry Entry) error
	List(ctx context.Context, filter domain.AuditLogFilter) ([]*domain.AuditLog, int, error)
}

type Service struct {
	repo repository.AuditLogRepository
	db   postgres.Transactor
	now  func() time.Time
}

func NewService(repo repository.AuditLogRepository, db postgres.Transactor) Auditor {
	return &Service{
		repo: repo,
		db:   db,
		now:  time.Now,
	}
}

func (s *Service) Record(ctx context.Context, q postgres.Queryer, entry Entry) error {
	if entry.Caller == nil {
		return ErrMissingCaller
	}

	before, err := snapshot(entry.Before)
	if err != nil {
		return err
	}

	after, err := snapshot(entry.After)
	if err != nil {
		return err
	}

	var actorID *uuid.UUID
	if !entry.Caller.IsSystem() {
		id := entry.Caller.ID
		actorID = &id
	}

	return s.repo.Insert(ctx, q, &domain.AuditLog{
		ID:          uuid.New(),
		ActorID:     actorID,
		Action:      entry.Action,
		TargetTable: entry.Table,
		TargetID:    entry.TargetID,
		BeforeData:  before,
		AfterData:   after,
		IP:          entry.Caller.IP,
		CreatedAt:   s.now().UTC(),
	})
}

func (s *Service) List(ctx context.Context, filter domain.AuditLogFilter) ([]*domain.AuditLog, int, error) {
	return s.repo.List(ctx, s.db.Reader(), filter)
}

func snapshot(v interface{}) (domain.JSONB, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return domain.JSONB(data), nil
}
