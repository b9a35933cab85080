package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

const ActionCreate = "create_ledger"

type LedgerService interface {
	CreateLedger(ctx context.Context, caller *domain.Caller, req domain.CreateLedgerRequest) (*domain.Ledger, error)
	GetLedger(ctx context.Context, id uuid.UUID) (*domain.Ledger, error)
	ListLedgers(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, int, error)
}

type Service struct {
	ledgerRepository  repository.LedgerRepository
	accountRepository repository.AccountRepository
	projectRepository repository.ProjectRepository
	channelRepository repository.ChannelRepository
	db                postgres.Transactor
	auditor           auditing.Auditor
	now               func() time.Time
}

func NewService(
	ledgerRepository repository.LedgerRepository,
	accountRepository repository.AccountRepository,
	projectRepository repository.ProjectRepository,
	channelRepository repository.ChannelRepository,
	db postgres.Transactor,
	auditor auditing.Auditor,
) LedgerService {
	return &Service{
		ledgerRepository:  ledgerRepository,
		accountRepository: accountRepository,
		projectRepository: projectRepository,
		channelRepository: channelRepository,
		db:                db,
		auditor:           auditor,
		now:               time.Now,
	}
}

// CreateLedger grava um lançamento financeiro. Quando vem ad_account_id, projeto
// e canal são herdados da conta e, se informados, precisam coincidir.
func (s *Service) CreateLedger(ctx context.Context, caller *domain.Caller, req domain.CreateLedgerRequest) (*domain.Ledger, error) {
	if !req.Type.IsValid() {
		return nil, apiErrors.ValidationFailed(MessageInvalidType)
	}
	if req.Amount.IsNegative() || req.Amount.Scale() > 2 {
		return nil, apiErrors.ValidationFailed(MessageInvalidAmount)
	}

	var remark *string
	if req.Remark != nil {
		trimmed := strings.TrimSpace(*req.Remark)
		if trimmed != "" {
			remark = &trimmed
		}
	}

	now := s.now().UTC()
	entry := &domain.Ledger{
		ID:          uuid.New(),
		Type:        req.Type,
		ProjectID:   req.ProjectID,
		ChannelID:   req.ChannelID,
		AdAccountID: req.AdAccountID,
		Amount:      domain.NewMoney(req.Amount.Decimal),
		Currency:    req.Currency,
		OccurredAt:  req.OccurredAt.UTC(),
		Remark:      remark,
		CreatedBy:   &caller.ID,
		UpdatedBy:   &caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		if err := s.resolveReferences(ctx, q, entry); err != nil {
			return err
		}

		if err := s.ledgerRepository.Create(ctx, q, entry); err != nil {
			return err
		}

		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionCreate,
			Table:    domain.TableLedgers,
			TargetID: entry.ID,
			After:    entry,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"ledger_id": entry.ID,
		"type":      entry.Type,
		"amount":    entry.Amount.String(),
	}).Info("Lançamento financeiro criado")

	return entry, nil
}

func (s *Service) GetLedger(ctx context.Context, id uuid.UUID) (*domain.Ledger, error) {
	entry, err := s.ledgerRepository.GetByID(ctx, s.db.Reader(), id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apiErrors.Wrap(ErrLedgerNotFound, apiErrors.ErrNotFound, MessageLedgerNotFound)
	}
	return entry, nil
}

func (s *Service) ListLedgers(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, int, error) {
	return s.ledgerRepository.List(ctx, s.db.Reader(), filter)
}

func (s *Service) resolveReferences(ctx context.Context, q postgres.Queryer, entry *domain.Ledger) error {
	if entry.AdAccountID != nil {
		account, err := s.accountRepository.GetByID(ctx, q, *entry.AdAccountID, false)
		if err != nil {
			return err
		}
		if account == nil {
			return apiErrors.Wrap(ErrAccountNotFound, apiErrors.ErrNotFound, MessageAccountNotFound)
		}

		if entry.ProjectID != nil && *entry.ProjectID != account.ProjectID {
			return apiErrors.Wrap(ErrMismatch, apiErrors.ErrInvalidParam, MessageMismatch)
		}
		if entry.ChannelID != nil && *entry.ChannelID != account.ChannelID {
			return apiErrors.Wrap(ErrMismatch, apiErrors.ErrInvalidParam, MessageMismatch)
		}

		projectID, channelID := account.ProjectID, account.ChannelID
		entry.ProjectID = &projectID
		entry.ChannelID = &channelID
		return nil
	}

	if entry.ProjectID != nil {
		project, err := s.projectRepository.GetByID(ctx, q, *entry.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return apiErrors.Wrap(ErrProjectNotFound, apiErrors.ErrNotFound, MessageProjectNotFound)
		}
	}

	if entry.ChannelID != nil {
		channel, err := s.channelRepository.GetByID(ctx, q, *entry.ChannelID)
		if err != nil {
			return err
		}
		if channel == nil {
			return apiErrors.Wrap(ErrChannelNotFound, apiErrors.ErrNotFound, MessageChannelNotFound)
		}
	}

	return nil
}
