package reconciling

import (
	"context"
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

// Ações gravadas no audit log
const (
	ActionAuto   = "auto_reconcile"
	ActionManual = "manual_reconcile"
	ActionReview = "review_reconciliation"
)

type ReconciliationService interface {
	RunAuto(ctx context.Context, caller *domain.Caller) (*domain.ReconciliationRunResult, error)
	CreateManual(ctx context.Context, caller *domain.Caller, req domain.CreateReconciliationRequest) (*domain.Reconciliation, error)
	Review(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.ReviewReconciliationRequest) (*domain.Reconciliation, error)
	Get(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.Reconciliation, error)
	List(ctx context.Context, caller *domain.Caller, filter domain.ReconciliationFilter) ([]*domain.Reconciliation, int, error)
}

type Service struct {
	reconciliationRepo repository.ReconciliationRepository
	spendRepo          repository.AdSpendRepository
	ledgerRepo         repository.LedgerRepository
	db                 postgres.Transactor
	auditor            auditing.Auditor
	lock               func(ctx context.Context, q postgres.Queryer) error
	now                func() time.Time
}

func NewService(
	reconciliationRepo repository.ReconciliationRepository,
	spendRepo repository.AdSpendRepository,
	ledgerRepo repository.LedgerRepository,
	db postgres.Transactor,
	auditor auditing.Auditor,
) ReconciliationService {
	return &Service{
		reconciliationRepo: reconciliationRepo,
		spendRepo:          spendRepo,
		ledgerRepo:         ledgerRepo,
		db:                 db,
		auditor:            auditor,
		lock:               batchLock,
		now:                time.Now,
	}
}

// batchLock enfileira execuções concorrentes; o lock cai no commit ou rollback
func batchLock(ctx context.Context, q postgres.Queryer) error {
	return postgres.AdvisoryXactLock(ctx, q, postgres.LockKeyReconciliation)
}

// RunAuto processa todos os relatórios ainda sem reconciliação. Uma segunda
// execução enxerga o resultado da primeira e não grava nada.
func (s *Service) RunAuto(ctx context.Context, caller *domain.Caller) (*domain.ReconciliationRunResult, error) {
	result := &domain.ReconciliationRunResult{}
	startedAt := time.Now()

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		if err := s.lock(ctx, q); err != nil {
			return err
		}

		spends, err := s.spendRepo.ListUnreconciled(ctx, q)
		if err != nil {
			return err
		}
		if len(spends) == 0 {
			return nil
		}

		ledgers, err := s.ledgerRepo.ListUnreconciled(ctx, q, accountIDs(spends))
		if err != nil {
			return err
		}

		now := s.now().UTC()
		for _, m := range MatchAll(spends, ledgers) {
			rec := &domain.Reconciliation{
				ID:           uuid.New(),
				AdAccountID:  m.Spend.AdAccountID,
				DailySpendID: m.Spend.ID,
				FinanceTxnID: m.Ledger.ID,
				MatchType:    domain.MatchTypeAuto,
				Status:       m.Status,
				AmountDiff:   m.AmountDiff,
				DateDiff:     m.DateDiff,
				CreatedBy:    actorID(caller),
				UpdatedBy:    actorID(caller),
				CreatedAt:    now,
				UpdatedAt:    now,
				Ownership:    m.Spend.Ownership,
			}

			if err := s.reconciliationRepo.Create(ctx, q, rec); err != nil {
				return err
			}

			if err := s.auditor.Record(ctx, q, auditing.Entry{
				Caller:   caller,
				Action:   ActionAuto,
				Table:    domain.TableReconciliations,
				TargetID: rec.ID,
				After:    rec,
			}); err != nil {
				return err
			}

			if rec.Status == domain.ReconciliationStatusMatched {
				result.Matched++
			} else {
				result.ManualReview++
			}
		}

		return nil
	})
	if err != nil {
		logrus.WithError(err).Error("Falha na reconciliação automática")
		return nil, err
	}

	result.Total = result.Matched + result.ManualReview

	logrus.WithFields(logrus.Fields{
		"matched":       result.Matched,
		"manual_review": result.ManualReview,
		"total":         result.Total,
		"duration":      time.Since(startedAt).String(),
	}).Info("Reconciliação automática concluída")

	return result, nil
}

func (s *Service) CreateManual(ctx context.Context, caller *domain.Caller, req domain.CreateReconciliationRequest) (*domain.Reconciliation, error) {
	if req.AmountDiff.IsNegative() || req.DateDiff < 0 {
		apiErr := apiErrors.ValidationFailed(MessageInvalidDiff)
		apiErr.Err = ErrInvalidDiff
		return nil, apiErr
	}

	status := req.Status
	if status == "" {
		status = domain.ReconciliationStatusManualReview
	}
	if status != domain.ReconciliationStatusManualReview && status != domain.ReconciliationStatusMatched {
		return nil, apiErrors.ValidationFailed(MessageInvalidStatus)
	}

	var created *domain.Reconciliation
	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		spend, err := s.spendRepo.GetByID(ctx, q, req.DailySpendID)
		if err != nil {
			return err
		}
		if spend == nil {
			return apiErrors.Wrap(ErrSpendNotFound, apiErrors.ErrNotFound, MessageSpendNotFound)
		}

		ledger, err := s.ledgerRepo.GetByID(ctx, q, req.FinanceTxnID)
		if err != nil {
			return err
		}
		if ledger == nil {
			return apiErrors.Wrap(ErrLedgerNotFound, apiErrors.ErrNotFound, MessageLedgerNotFound)
		}

		if !authorizing.CanSee(caller, spend.Ownership) {
			return apiErrors.PermissionDenied()
		}

		if spend.AdAccountID != req.AdAccountID || (ledger.AdAccountID != nil && *ledger.AdAccountID != req.AdAccountID) {
			return apiErrors.Wrap(ErrAccountMismatch, apiErrors.ErrInvalidParam, MessageAccountMismatch)
		}

		now := s.now().UTC()
		rec := &domain.Reconciliation{
			ID:           uuid.New(),
			AdAccountID:  req.AdAccountID,
			DailySpendID: req.DailySpendID,
			FinanceTxnID: req.FinanceTxnID,
			MatchType:    domain.MatchTypeManual,
			Status:       status,
			AmountDiff:   domain.NewMoney(req.AmountDiff.Decimal),
			DateDiff:     req.DateDiff,
			CreatedBy:    actorID(caller),
			UpdatedBy:    actorID(caller),
			CreatedAt:    now,
			UpdatedAt:    now,
			Ownership:    spend.Ownership,
		}

		if err := s.reconciliationRepo.Create(ctx, q, rec); err != nil {
			if postgres.IsUniqueViolation(err) {
				return alreadyReconciled(err)
			}
			return err
		}

		created = rec
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionManual,
			Table:    domain.TableReconciliations,
			TargetID: rec.ID,
			After:    rec,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"reconciliation_id": created.ID,
		"daily_spend_id":    created.DailySpendID,
		"finance_txn_id":    created.FinanceTxnID,
	}).Info("Reconciliação manual criada")

	return created, nil
}

func (s *Service) Review(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.ReviewReconciliationRequest) (*domain.Reconciliation, error) {
	if !req.Action.IsValid() {
		return nil, apiErrors.ValidationFailed(MessageInvalidAction)
	}

	var updated *domain.Reconciliation
	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		rec, err := s.reconciliationRepo.GetByID(ctx, q, id, true)
		if err != nil {
			return err
		}
		if rec == nil {
			return apiErrors.Wrap(ErrReconciliationNotFound, apiErrors.ErrNotFound, MessageReconciliationNotFound)
		}
		if !authorizing.CanSee(caller, rec.Ownership) {
			return apiErrors.PermissionDenied()
		}

		next, ok := req.Action.NextStatus(rec.Status)
		if !ok {
			return invalidReview()
		}

		before := *rec
		now := s.now().UTC()

		rec.Status = next
		rec.ReviewedBy = actorID(caller)
		rec.ReviewedAt = &now
		rec.ReviewNotes = req.Notes
		rec.UpdatedBy = actorID(caller)
		rec.UpdatedAt = now

		if err := s.reconciliationRepo.UpdateReview(ctx, q, rec); err != nil {
			return err
		}

		updated = rec
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionReview,
			Table:    domain.TableReconciliations,
			TargetID: rec.ID,
			Before:   before,
			After:    rec,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"reconciliation_id": updated.ID,
		"action":            req.Action,
		"status":            updated.Status,
	}).Info("Reconciliação revisada")

	return updated, nil
}

func (s *Service) Get(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.Reconciliation, error) {
	rec, err := s.reconciliationRepo.GetByID(ctx, s.db.Reader(), id, false)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apiErrors.Wrap(ErrReconciliationNotFound, apiErrors.ErrNotFound, MessageReconciliationNotFound)
	}
	if !authorizing.CanSee(caller, rec.Ownership) {
		return nil, apiErrors.PermissionDenied()
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, caller *domain.Caller, filter domain.ReconciliationFilter) ([]*domain.Reconciliation, int, error) {
	return s.reconciliationRepo.List(ctx, s.db.Reader(), authorizing.VisibilityFor(caller), filter)
}

func accountIDs(spends []*domain.AdSpendDaily) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(spends))
	ids := make([]uuid.UUID, 0, len(spends))
	for _, s := range spends {
		if seen[s.AdAccountID] {
			continue
		}
		seen[s.AdAccountID] = true
		ids = append(ids, s.AdAccountID)
	}
	return ids
}

// actorID é nil para execuções do agendador
func actorID(caller *domain.Caller) *uuid.UUID {
	if caller.IsSystem() {
		return nil
	}
	id := caller.ID
	return &id
}
