package channel

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

const (
	ActionCreate = "create_channel"
	ActionUpdate = "update_channel"
)

var maxPercent = decimal.NewFromInt(100)

type ChannelService interface {
	CreateChannel(ctx context.Context, caller *domain.Caller, req domain.CreateChannelRequest) (*domain.Channel, error)
	UpdateChannel(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.UpdateChannelRequest) (*domain.Channel, error)
	GetChannel(ctx context.Context, id uuid.UUID) (*domain.Channel, error)
	ListChannels(ctx context.Context, filter domain.ChannelFilter) ([]*domain.Channel, int, error)
}

type Service struct {
	channelRepository repository.ChannelRepository
	db                postgres.Transactor
	auditor           auditing.Auditor
	now               func() time.Time
}

func NewService(channelRepository repository.ChannelRepository, db postgres.Transactor, auditor auditing.Auditor) ChannelService {
	return &Service{
		channelRepository: channelRepository,
		db:                db,
		auditor:           auditor,
		now:               time.Now,
	}
}

func (s *Service) CreateChannel(ctx context.Context, caller *domain.Caller, req domain.CreateChannelRequest) (*domain.Channel, error) {
	if err := validateFee(req.ServiceFeeType, req.ServiceFeeValue); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.now().UTC()
	channel := &domain.Channel{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(req.Name),
		ServiceFeeType:  req.ServiceFeeType,
		ServiceFeeValue: domain.NewMoney(req.ServiceFeeValue.Decimal),
		IsActive:        isActive,
		CreatedBy:       &caller.ID,
		UpdatedBy:       &caller.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		if err := s.channelRepository.Create(ctx, q, channel); err != nil {
			if postgres.IsUniqueViolation(err) {
				return duplicateName(err)
			}
			return err
		}

		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionCreate,
			Table:    domain.TableChannels,
			TargetID: channel.ID,
			After:    channel,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"channel_id": channel.ID,
		"fee_type":   channel.ServiceFeeType,
	}).Info("Canal criado")

	return channel, nil
}

func (s *Service) UpdateChannel(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.UpdateChannelRequest) (*domain.Channel, error) {
	var updated *domain.Channel

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		channel, err := s.channelRepository.GetByID(ctx, q, id)
		if err != nil {
			return err
		}
		if channel == nil {
			return apiErrors.Wrap(ErrChannelNotFound, apiErrors.ErrNotFound, MessageChannelNotFound)
		}

		before := *channel

		if req.Name != nil {
			channel.Name = strings.TrimSpace(*req.Name)
		}
		if req.ServiceFeeType != nil {
			channel.ServiceFeeType = *req.ServiceFeeType
		}
		if req.ServiceFeeValue != nil {
			channel.ServiceFeeValue = *req.ServiceFeeValue
		}
		if req.IsActive != nil {
			channel.IsActive = *req.IsActive
		}

		// tipo e valor são validados juntos, um pode mudar sem o outro
		if err := validateFee(channel.ServiceFeeType, channel.ServiceFeeValue); err != nil {
			return err
		}
		channel.ServiceFeeValue = domain.NewMoney(channel.ServiceFeeValue.Decimal)

		channel.UpdatedBy = &caller.ID
		channel.UpdatedAt = s.now().UTC()

		if err := s.channelRepository.Update(ctx, q, channel); err != nil {
			if postgres.IsUniqueViolation(err) {
				return duplicateName(err)
			}
			return err
		}

		updated = channel
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionUpdate,
			Table:    domain.TableChannels,
			TargetID: channel.ID,
			Before:   before,
			After:    channel,
		})
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) GetChannel(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	channel, err := s.channelRepository.GetByID(ctx, s.db.Reader(), id)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, apiErrors.Wrap(ErrChannelNotFound, apiErrors.ErrNotFound, MessageChannelNotFound)
	}
	return channel, nil
}

func (s *Service) ListChannels(ctx context.Context, filter domain.ChannelFilter) ([]*domain.Channel, int, error) {
	return s.channelRepository.List(ctx, s.db.Reader(), filter)
}

func validateFee(feeType domain.ChannelFeeType, value domain.Money) error {
	switch feeType {
	case domain.ChannelFeePercent:
		if value.IsNegative() || value.GreaterThan(maxPercent) || value.Scale() > 2 {
			return invalidFee(MessageInvalidPercent)
		}
	case domain.ChannelFeeFixed:
		if value.IsNegative() || value.Scale() > 2 {
			return invalidFee(MessageInvalidFixed)
		}
	default:
		return apiErrors.Wrap(ErrInvalidFeeType, apiErrors.ErrInvalidParam, MessageInvalidFeeType)
	}
	return nil
}
