package account

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
	"github.com/vfg2006/adops-finance-api/internal/usecases/authorizing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

const (
	ActionCreate       = "create_ad_account"
	ActionUpdate       = "update_ad_account"
	ActionUpdateStatus = "update_ad_account_status"
)

type AccountService interface {
	CreateAccount(ctx context.Context, caller *domain.Caller, req domain.CreateAdAccountRequest) (*domain.AdAccount, error)
	UpdateAccount(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.UpdateAdAccountRequest) (*domain.AdAccount, error)
	TransitionAccount(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TransitionAdAccountRequest) (*domain.AdAccount, error)
	GetAccount(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.AdAccount, error)
	ListAccounts(ctx context.Context, caller *domain.Caller, filter domain.AdAccountFilter) ([]*domain.AdAccount, int, error)
}

type Service struct {
	accountRepository repository.AccountRepository
	projectRepository repository.ProjectRepository
	channelRepository repository.ChannelRepository
	userRepository    repository.UserRepository
	db                postgres.Transactor
	auditor           auditing.Auditor
	now               func() time.Time
}

func NewService(
	accountRepository repository.AccountRepository,
	projectRepository repository.ProjectRepository,
	channelRepository repository.ChannelRepository,
	userRepository repository.UserRepository,
	db postgres.Transactor,
	auditor auditing.Auditor,
) AccountService {
	return &Service{
		accountRepository: accountRepository,
		projectRepository: projectRepository,
		channelRepository: channelRepository,
		userRepository:    userRepository,
		db:                db,
		auditor:           auditor,
		now:               time.Now,
	}
}

func (s *Service) CreateAccount(ctx context.Context, caller *domain.Caller, req domain.CreateAdAccountRequest) (*domain.AdAccount, error) {
	var created *domain.AdAccount

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		project, err := s.projectRepository.GetByID(ctx, q, req.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return apiErrors.Wrap(ErrProjectNotFound, apiErrors.ErrNotFound, MessageProjectNotFound)
		}

		visible, err := authorizing.CanSeeProject(caller, project, func() (bool, error) {
			return s.projectRepository.HasAssignedAccount(ctx, q, project.ID, caller.ID)
		})
		if err != nil {
			return err
		}
		if !visible {
			return apiErrors.PermissionDenied()
		}

		channel, err := s.channelRepository.GetByID(ctx, q, req.ChannelID)
		if err != nil {
			return err
		}
		if channel == nil {
			return apiErrors.Wrap(ErrChannelNotFound, apiErrors.ErrNotFound, MessageChannelNotFound)
		}
		if !channel.IsActive {
			return apiErrors.Wrap(ErrChannelInactive, apiErrors.ErrInvalidParam, MessageChannelInactive)
		}

		if err := s.checkAssignee(ctx, q, req.AssignedUserID); err != nil {
			return err
		}

		now := s.now().UTC()
		account := &domain.AdAccount{
			ID:                      uuid.New(),
			Name:                    strings.TrimSpace(req.Name),
			ProjectID:               project.ID,
			ChannelID:               channel.ID,
			AssignedUserID:          req.AssignedUserID,
			Status:                  domain.AdAccountStatusNew,
			CreatedBy:               &caller.ID,
			UpdatedBy:               &caller.ID,
			CreatedAt:               now,
			UpdatedAt:               now,
			ProjectAccountManagerID: project.AccountManagerID,
		}

		if err := s.accountRepository.Create(ctx, q, account); err != nil {
			return err
		}

		created = account
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionCreate,
			Table:    domain.TableAdAccounts,
			TargetID: account.ID,
			After:    account,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"ad_account_id": created.ID,
		"project_id":    created.ProjectID,
	}).Info("Conta de anúncio criada")

	return created, nil
}

func (s *Service) UpdateAccount(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.UpdateAdAccountRequest) (*domain.AdAccount, error) {
	var updated *domain.AdAccount

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		account, err := s.lockVisible(ctx, q, caller, id)
		if err != nil {
			return err
		}

		before := *account

		if req.Name != nil {
			account.Name = strings.TrimSpace(*req.Name)
		}
		if req.AssignedUserID != nil {
			if err := s.checkAssignee(ctx, q, req.AssignedUserID); err != nil {
				return err
			}
			account.AssignedUserID = req.AssignedUserID
		}

		account.UpdatedBy = &caller.ID
		account.UpdatedAt = s.now().UTC()

		if err := s.accountRepository.Update(ctx, q, account); err != nil {
			return err
		}

		updated = account
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionUpdate,
			Table:    domain.TableAdAccounts,
			TargetID: account.ID,
			Before:   before,
			After:    account,
		})
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// TransitionAccount aplica a máquina de status; dead exige motivo.
func (s *Service) TransitionAccount(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TransitionAdAccountRequest) (*domain.AdAccount, error) {
	if !req.Status.IsValid() {
		return nil, apiErrors.ValidationFailed(MessageUnknownStatus)
	}

	var updated *domain.AdAccount

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		account, err := s.lockVisible(ctx, q, caller, id)
		if err != nil {
			return err
		}

		if !account.Status.CanTransitionTo(req.Status) {
			return invalidStatus(ErrInvalidTransition, MessageInvalidStatus)
		}

		before := *account

		if req.Status == domain.AdAccountStatusDead {
			if req.DeadReason == nil || strings.TrimSpace(*req.DeadReason) == "" {
				return invalidStatus(ErrDeadReasonMissing, MessageDeadReason)
			}
			reason := strings.TrimSpace(*req.DeadReason)
			account.DeadReason = &reason
		}

		account.Status = req.Status
		account.UpdatedBy = &caller.ID
		account.UpdatedAt = s.now().UTC()

		if err := s.accountRepository.Update(ctx, q, account); err != nil {
			return err
		}

		updated = account
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionUpdateStatus,
			Table:    domain.TableAdAccounts,
			TargetID: account.ID,
			Before:   before,
			After:    account,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"ad_account_id": updated.ID,
		"status":        updated.Status,
		"user_id":       caller.ID,
	}).Info("Status da conta de anúncio atualizado")

	return updated, nil
}

func (s *Service) GetAccount(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.AdAccount, error) {
	account, err := s.accountRepository.GetByID(ctx, s.db.Reader(), id, false)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apiErrors.Wrap(ErrAccountNotFound, apiErrors.ErrNotFound, MessageAccountNotFound)
	}
	if !authorizing.CanSeeAccount(caller, account) {
		return nil, apiErrors.PermissionDenied()
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context, caller *domain.Caller, filter domain.AdAccountFilter) ([]*domain.AdAccount, int, error) {
	return s.accountRepository.List(ctx, s.db.Reader(), authorizing.VisibilityFor(caller), filter)
}

func (s *Service) lockVisible(ctx context.Context, q postgres.Queryer, caller *domain.Caller, id uuid.UUID) (*domain.AdAccount, error) {
	account, err := s.accountRepository.GetByID(ctx, q, id, true)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apiErrors.Wrap(ErrAccountNotFound, apiErrors.ErrNotFound, MessageAccountNotFound)
	}
	if !authorizing.CanSeeAccount(caller, account) {
		return nil, apiErrors.PermissionDenied()
	}
	return account, nil
}

func (s *Service) checkAssignee(ctx context.Context, q postgres.Queryer, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}

	user, err := s.userRepository.GetByID(ctx, q, *userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apiErrors.Wrap(ErrAssigneeNotFound, apiErrors.ErrInvalidParam, MessageAssigneeNotFound)
	}
	if !user.IsActive {
		return apiErrors.Wrap(ErrAssigneeInactive, apiErrors.ErrInvalidParam, MessageAssigneeInactive)
	}
	return nil
}
