package spending

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

const ActionCreate = "create_ad_spend_daily"

const maxLeads = 1_000_000

var maxSpend = decimal.NewFromInt(10_000_000)

type SpendingService interface {
	SubmitReport(ctx context.Context, caller *domain.Caller, req domain.SubmitReportRequest) (*domain.AdSpendDaily, error)
	GetReport(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.AdSpendDaily, error)
	ListReports(ctx context.Context, caller *domain.Caller, filter domain.AdSpendFilter) ([]*domain.AdSpendDaily, int, error)
}

type Service struct {
	spendRepo   repository.AdSpendRepository
	accountRepo repository.AccountRepository
	db          postgres.Transactor
	auditor     auditing.Auditor
	now         func() time.Time
}

func NewService(
	spendRepo repository.AdSpendRepository,
	accountRepo repository.AccountRepository,
	db postgres.Transactor,
	auditor auditing.Auditor,
) SpendingService {
	return &Service{
		spendRepo:   spendRepo,
		accountRepo: accountRepo,
		db:          db,
		auditor:     auditor,
		now:         time.Now,
	}
}

func (s *Service) SubmitReport(ctx context.Context, caller *domain.Caller, req domain.SubmitReportRequest) (*domain.AdSpendDaily, error) {
	if err := validateReport(req); err != nil {
		return nil, err
	}

	spend := domain.NewMoney(req.Spend.Decimal)

	var created *domain.AdSpendDaily
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

		existing, err := s.spendRepo.GetByAccountAndDate(ctx, q, req.AdAccountID, req.Date)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateReport(nil)
		}

		previous, err := s.spendRepo.GetPrevious(ctx, q, req.AdAccountID, req.Date)
		if err != nil {
			return err
		}

		isAnomaly, reason := DetectAnomaly(spend, req.LeadsCount, previous)

		now := s.now().UTC()
		record := &domain.AdSpendDaily{
			ID:            uuid.New(),
			AdAccountID:   req.AdAccountID,
			UserID:        caller.ID,
			Date:          req.Date,
			Spend:         spend,
			LeadsCount:    req.LeadsCount,
			CostPerLead:   CostPerLead(spend, req.LeadsCount),
			IsAnomaly:     isAnomaly,
			AnomalyReason: reason,
			Note:          req.Note,
			CreatedBy:     &caller.ID,
			UpdatedBy:     &caller.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
			Ownership:     account.Ownership(),
		}

		if err := s.spendRepo.Create(ctx, q, record); err != nil {
			// outra submissão venceu entre o pre-check e o insert
			if postgres.IsUniqueViolation(err) {
				return duplicateReport(err)
			}
			return err
		}

		created = record
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionCreate,
			Table:    domain.TableAdSpendDaily,
			TargetID: record.ID,
			After:    record,
		})
	})
	if err != nil {
		return nil, err
	}

	entry := logrus.WithFields(logrus.Fields{
		"ad_spend_id":   created.ID,
		"ad_account_id": created.AdAccountID,
		"date":          created.Date.String(),
	})
	if created.IsAnomaly {
		entry.WithField("reason", *created.AnomalyReason).Warn("Relatório diário com anomalia")
	} else {
		entry.Info("Relatório diário registrado")
	}

	return created, nil
}

func (s *Service) GetReport(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.AdSpendDaily, error) {
	record, err := s.spendRepo.GetByID(ctx, s.db.Reader(), id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apiErrors.Wrap(ErrReportNotFound, apiErrors.ErrNotFound, MessageReportNotFound)
	}
	if !authorizing.CanSee(caller, record.Ownership) {
		return nil, apiErrors.PermissionDenied()
	}
	return record, nil
}

func (s *Service) ListReports(ctx context.Context, caller *domain.Caller, filter domain.AdSpendFilter) ([]*domain.AdSpendDaily, int, error) {
	return s.spendRepo.List(ctx, s.db.Reader(), authorizing.VisibilityFor(caller), filter)
}

func validateReport(req domain.SubmitReportRequest) error {
	if req.Date.IsZero() {
		return validationError(ErrMissingReportDay, MessageMissingDate)
	}

	if req.Spend.IsNegative() || req.Spend.Round(2).GreaterThan(maxSpend) {
		return validationError(ErrInvalidSpend, MessageInvalidSpend)
	}

	if req.LeadsCount < 0 || req.LeadsCount > maxLeads {
		return validationError(ErrInvalidLeads, MessageInvalidLeads)
	}

	return nil
}
