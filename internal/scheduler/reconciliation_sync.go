package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/internal/config"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

const reconciliationLockKey = "reconciliation:auto"

// AutoReconciler é a parte do serviço de reconciliação usada pelo agendador
type AutoReconciler interface {
	RunAuto(ctx context.Context, caller *domain.Caller) (*domain.ReconciliationRunResult, error)
}

// DistributedLocker impede que duas instâncias rodem o mesmo job
type DistributedLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// ReconciliationSyncConfig representa a configuração do agendador de reconciliação
type ReconciliationSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
	LockTTL      time.Duration
}

// ReconciliationSyncService agenda a reconciliação automática
type ReconciliationSyncService struct {
	scheduler           *gocron.Scheduler
	config              ReconciliationSyncConfig
	reconciler          AutoReconciler
	locker              DistributedLocker
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          *domain.ReconciliationRunResult
	lastError           string
}

// NewReconciliationSyncService cria o agendador. locker pode ser nil quando o
// Redis não está configurado.
func NewReconciliationSyncService(
	reconciler AutoReconciler,
	locker DistributedLocker,
	appConfig *config.Config,
) *ReconciliationSyncService {
	syncConfig := ReconciliationSyncConfig{
		CronSchedule: appConfig.ReconciliationSync.CronSchedule,
		SyncEnabled:  appConfig.ReconciliationSync.Enabled,
		LockTTL:      appConfig.ReconciliationSync.LockTTL,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":    syncConfig.CronSchedule,
		"sync_enabled":     syncConfig.SyncEnabled,
		"lock_ttl":         syncConfig.LockTTL.String(),
		"distributed_lock": locker != nil,
	}).Info("Configuração do agendador de reconciliação carregada")

	return &ReconciliationSyncService{
		scheduler:  gocron.NewScheduler(time.UTC),
		config:     syncConfig,
		reconciler: reconciler,
		locker:     locker,
	}
}

// Start inicia o agendador
func (s *ReconciliationSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Reconciliação automática agendada desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de reconciliação automática")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runReconciliation(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar reconciliação automática: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de reconciliação automática")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ReconciliationSyncService) runReconciliation(ctx context.Context) {
	started, ok := s.tryBegin()
	if !ok {
		logrus.Info("Reconciliação automática já em andamento, ignorando")
		return
	}
	s.execute(ctx, started)
}

// tryBegin marca a execução como em andamento sob o mutex
func (s *ReconciliationSyncService) tryBegin() (time.Time, bool) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return time.Time{}, false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return s.lastSyncStartedAt, true
}

// execute pressupõe tryBegin bem sucedido
func (s *ReconciliationSyncService) execute(ctx context.Context, started time.Time) {
	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, reconciliationLockKey, s.config.LockTTL)
		if err != nil {
			logrus.WithError(err).Error("Erro ao obter lock da reconciliação automática")
			s.finish(nil, err)
			return
		}
		if !ok {
			logrus.Info("Reconciliação automática em execução em outra instância, ignorando")
			return
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logrus.WithError(err).Warn("Erro ao liberar lock da reconciliação automática")
			}
		}()
	}

	logrus.Info("Iniciando reconciliação automática agendada")

	result, err := s.reconciler.RunAuto(ctx, domain.SystemCaller())
	s.finish(result, err)
	if err != nil {
		logrus.WithError(err).Error("Erro na reconciliação automática agendada")
		return
	}

	logrus.WithFields(logrus.Fields{
		"matched":       result.Matched,
		"manual_review": result.ManualReview,
		"total":         result.Total,
		"duration":      time.Since(started).String(),
	}).Info("Reconciliação automática agendada concluída")
}

func (s *ReconciliationSyncService) finish(result *domain.ReconciliationRunResult, err error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.lastSyncCompletedAt = time.Now()
	s.lastResult = result
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
}

// TriggerManualSync dispara uma execução fora do agendamento. Devolve false
// quando já existe uma em andamento nesta instância.
func (s *ReconciliationSyncService) TriggerManualSync(ctx context.Context) bool {
	started, ok := s.tryBegin()
	if !ok {
		logrus.Info("Reconciliação automática já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando reconciliação automática manual")
	go s.execute(context.WithoutCancel(ctx), started)
	return true
}

// GetStatus retorna o status atual da sincronização
func (s *ReconciliationSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_running":           s.syncRunning,
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"distributed_lock":       s.locker != nil,
		"last_sync_started_at":   formatTime(s.lastSyncStartedAt),
		"last_sync_completed_at": formatTime(s.lastSyncCompletedAt),
		"last_error":             s.lastError,
	}
	if s.lastResult != nil {
		status["last_result"] = s.lastResult
	}

	return status
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
