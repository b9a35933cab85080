package topup

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authorizing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

// Ações gravadas no audit log
const (
	ActionCreate  = "create_topup"
	ActionApprove = "approve_topup"
	ActionPay     = "pay_topup"
	ActionConfirm = "confirm_topup"
	ActionReject  = "reject_topup"
)

var hundred = decimal.NewFromInt(100)

type TopupService interface {
	Create(ctx context.Context, caller *domain.Caller, req domain.CreateTopupRequest) (*domain.Topup, error)
	Approve(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TopupTransitionRequest) (*domain.Topup, error)
	Pay(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TopupTransitionRequest) (*domain.Topup, error)
	Confirm(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TopupTransitionRequest) (*domain.Topup, error)
	Reject(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TopupTransitionRequest) (*domain.Topup, error)
	Get(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.Topup, error)
	List(ctx context.Context, caller *domain.Caller, filter domain.TopupFilter) ([]*domain.Topup, int, error)
}

type Service struct {
	topupRepo   repository.TopupRepository
	accountRepo repository.AccountRepository
	channelRepo repository.ChannelRepository
	db          postgres.Transactor
	auditor     auditing.Auditor
	now         func() time.Time
}

func NewService(
	topupRepo repository.TopupRepository,
	accountRepo repository.AccountRepository,
	channelRepo repository.ChannelRepository,
	db postgres.Transactor,
	auditor auditing.Auditor,
) TopupService {
	return &Service{
		topupRepo:   topupRepo,
		accountRepo: accountRepo,
		channelRepo: channelRepo,
		db:          db,
		auditor:     auditor,
		now:         time.Now,
	}
}

func (s *Service) Create(ctx context.Context, caller *domain.Caller, req domain.CreateTopupRequest) (*domain.Topup, error) {
	if !req.Amount.IsPositive() || req.Amount.Scale() > 2 {
		return nil, apiErrors.Wrap(ErrInvalidAmount, apiErrors.ErrInvalidParam, MessageInvalidAmount)
	}

	var created *domain.Topup
	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		account, err := s.accountRepo.GetByID(ctx, q, req.AdAccountID, false)
		if err != nil {
			return err
		}
		if account == nil {
			return apiErrors.Wrap(ErrAccountNotFound, apiErrors.ErrNotFound, MessageAccountNotFound)
		}
		if !authorizing.CanSeeAccount(caller, account) {
			return apiErrors.PermissionDenied()
		}
		if account.ProjectID != req.ProjectID || account.ChannelID != req.ChannelID {
			return apiErrors.Wrap(ErrAccountMismatch, apiErrors.ErrInvalidParam, MessageAccountMismatch)
		}

		now := s.now().UTC()
		record := &domain.Topup{
			ID:          uuid.New(),
			ProjectID:   req.ProjectID,
			AdAccountID: req.AdAccountID,
			ChannelID:   req.ChannelID,
			RequestedBy: caller.ID,
			Amount:      domain.NewMoney(req.Amount.Decimal),
			Status:      domain.TopupStatusPending,
			Remark:      req.Remark,
			CreatedBy:   &caller.ID,
			UpdatedBy:   &caller.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
			Ownership:   account.Ownership(),
		}

		if err := s.topupRepo.Create(ctx, q, record); err != nil {
			return err
		}

		created = record
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionCreate,
			Table:    domain.TableTopups,
			TargetID: record.ID,
			After:    record,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"topup_id":      created.ID,
		"ad_account_id": created.AdAccountID,
		"amount":        created.Amount.String(),
	}).Info("Topup criado")

	return created, nil
}

func (s *Service) Approve(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TopupTransitionRequest) (*domain.Topup, error) {
	return s.transition(ctx, caller, id, domain.TopupStatusApproved, ActionApprove, req.Remark,
		func(q postgres.Queryer, record *domain.Topup) error {
			channel, err := s.channelRepo.GetByID(ctx, q, record.ChannelID)
			if err != nil {
				return err
			}
			if channel == nil {
				return apiErrors.Wrap(ErrChannelNotFound, apiErrors.ErrNotFound, MessageChannelNotFound)
			}

			fee := ServiceFee(record.Amount, channel)
			record.ServiceFeeAmount = &fee
			return nil
		})
}

func (s *Service) Pay(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TopupTransitionRequest) (*domain.Topup, error) {
	return s.transition(ctx, caller, id, domain.TopupStatusPaid, ActionPay, req.Remark, nil)
}

func (s *Service) Confirm(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TopupTransitionRequest) (*domain.Topup, error) {
	return s.transition(ctx, caller, id, domain.TopupStatusDone, ActionConfirm, req.Remark, nil)
}

func (s *Service) Reject(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TopupTransitionRequest) (*domain.Topup, error) {
	return s.transition(ctx, caller, id, domain.TopupStatusRejected, ActionReject, req.Remark, nil)
}

func (s *Service) Get(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.Topup, error) {
	record, err := s.topupRepo.GetByID(ctx, s.db.Reader(), id, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apiErrors.Wrap(ErrTopupNotFound, apiErrors.ErrNotFound, MessageTopupNotFound)
	}
	if !authorizing.CanSee(caller, record.Ownership) {
		return nil, apiErrors.PermissionDenied()
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, caller *domain.Caller, filter domain.TopupFilter) ([]*domain.Topup, int, error) {
	return s.topupRepo.List(ctx, s.db.Reader(), authorizing.VisibilityFor(caller), filter)
}

// transition trava a linha, reavalia o status atual e só então aplica o destino.
// Quem perde a corrida pelo lock enxerga o novo status e recebe INVALID_STATUS.
func (s *Service) transition(
	ctx context.Context,
	caller *domain.Caller,
	id uuid.UUID,
	target domain.TopupStatus,
	action string,
	remark *string,
	apply func(q postgres.Queryer, record *domain.Topup) error,
) (*domain.Topup, error) {
	var updated *domain.Topup

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		record, err := s.topupRepo.GetByID(ctx, q, id, true)
		if err != nil {
			return err
		}
		if record == nil {
			return apiErrors.Wrap(ErrTopupNotFound, apiErrors.ErrNotFound, MessageTopupNotFound)
		}
		if !authorizing.CanSee(caller, record.Ownership) {
			return apiErrors.PermissionDenied()
		}
		if !record.Status.CanTransitionTo(target) {
			return invalidStatus()
		}

		before := *record

		record.Status = target
		if remark != nil {
			record.Remark = remark
		}
		record.UpdatedBy = &caller.ID
		record.UpdatedAt = s.now().UTC()

		if apply != nil {
			if err := apply(q, record); err != nil {
				return err
			}
		}

		if err := s.topupRepo.UpdateStatus(ctx, q, record); err != nil {
			return err
		}

		updated = record
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   action,
			Table:    domain.TableTopups,
			TargetID: record.ID,
			Before:   before,
			After:    record,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"topup_id": updated.ID,
		"status":   updated.Status,
		"user_id":  caller.ID,
	}).Info("Status do topup atualizado")

	return updated, nil
}

// ServiceFee calcula a taxa do canal: percent aplica value% sobre o valor com
// arredondamento half-up em 2 casas, fixed usa o próprio value.
func ServiceFee(amount domain.Money, channel *domain.Channel) domain.Money {
	if channel.ServiceFeeType == domain.ChannelFeePercent {
		return domain.NewMoney(amount.Mul(channel.ServiceFeeValue.Decimal).Div(hundred))
	}
	return domain.NewMoney(channel.ServiceFeeValue.Decimal)
}
