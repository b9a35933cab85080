package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

type fakeReconciler struct {
	mu      sync.Mutex
	calls   int
	callers []*domain.Caller
	result  *domain.ReconciliationRunResult
	err     error
	block   chan struct{}
}

func (f *fakeReconciler) RunAuto(_ context.Context, caller *domain.Caller) (*domain.ReconciliationRunResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.callers = append(f.callers, caller)
	return f.result, f.err
}

func (f *fakeReconciler) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLocker struct {
	held     bool
	err      error
	keys     []string
	ttls     []time.Duration
	released int
}

func (f *fakeLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	f.keys = append(f.keys, key)
	f.ttls = append(f.ttls, ttl)
	if f.err != nil {
		return nil, false, f.err
	}
	if f.held {
		return nil, false, nil
	}
	return func(context.Context) error {
		f.released++
		return nil
	}, true, nil
}

func newSyncService(reconciler AutoReconciler, locker DistributedLocker) *ReconciliationSyncService {
	return &ReconciliationSyncService{
		config: ReconciliationSyncConfig{
			CronSchedule: "30 2 * * *",
			SyncEnabled:  true,
			LockTTL:      10 * time.Minute,
		},
		reconciler: reconciler,
		locker:     locker,
	}
}

func TestReconciliationSyncService_runReconciliation(t *testing.T) {
	result := &domain.ReconciliationRunResult{Matched: 2, ManualReview: 1, Total: 3}

	tests := []struct {
		name       string
		reconciler *fakeReconciler
		locker     *fakeLocker
		validate   func(t *testing.T, s *ReconciliationSyncService, r *fakeReconciler, l *fakeLocker)
	}{
		{
			name:       "sem redis executa como sistema",
			reconciler: &fakeReconciler{result: result},
			validate: func(t *testing.T, s *ReconciliationSyncService, r *fakeReconciler, l *fakeLocker) {
				require.Equal(t, 1, r.Calls())
				assert.True(t, r.callers[0].IsSystem())

				status := s.GetStatus()
				assert.Equal(t, result, status["last_result"])
				assert.Equal(t, "", status["last_error"])
				assert.False(t, status["sync_running"].(bool))
				assert.False(t, status["distributed_lock"].(bool))
			},
		},
		{
			name:       "com lock obtido libera ao terminar",
			reconciler: &fakeReconciler{result: result},
			locker:     &fakeLocker{},
			validate: func(t *testing.T, s *ReconciliationSyncService, r *fakeReconciler, l *fakeLocker) {
				assert.Equal(t, 1, r.Calls())
				assert.Equal(t, []string{reconciliationLockKey}, l.keys)
				assert.Equal(t, 10*time.Minute, l.ttls[0])
				assert.Equal(t, 1, l.released)
			},
		},
		{
			name:       "lock com outra instância não executa",
			reconciler: &fakeReconciler{result: result},
			locker:     &fakeLocker{held: true},
			validate: func(t *testing.T, s *ReconciliationSyncService, r *fakeReconciler, l *fakeLocker) {
				assert.Zero(t, r.Calls())
				assert.Zero(t, l.released)
				assert.Equal(t, "", s.GetStatus()["last_sync_completed_at"])
			},
		},
		{
			name:       "erro no redis registra no status",
			reconciler: &fakeReconciler{result: result},
			locker:     &fakeLocker{err: errors.New("connection refused")},
			validate: func(t *testing.T, s *ReconciliationSyncService, r *fakeReconciler, l *fakeLocker) {
				assert.Zero(t, r.Calls())
				assert.Contains(t, s.GetStatus()["last_error"], "connection refused")
			},
		},
		{
			name:       "erro na reconciliação registra no status",
			reconciler: &fakeReconciler{err: errors.New("deadlock detected")},
			validate: func(t *testing.T, s *ReconciliationSyncService, r *fakeReconciler, l *fakeLocker) {
				assert.Equal(t, 1, r.Calls())
				status := s.GetStatus()
				assert.Equal(t, "deadlock detected", status["last_error"])
				assert.NotContains(t, status, "last_result")
				assert.NotEmpty(t, status["last_sync_completed_at"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// *fakeLocker nil viraria uma interface não-nil
			var locker DistributedLocker
			if tt.locker != nil {
				locker = tt.locker
			}
			s := newSyncService(tt.reconciler, locker)

			s.runReconciliation(context.Background())
			tt.validate(t, s, tt.reconciler, tt.locker)
		})
	}
}

func TestReconciliationSyncService_TriggerManualSyncWhileRunning(t *testing.T) {
	reconciler := &fakeReconciler{
		result: &domain.ReconciliationRunResult{},
		block:  make(chan struct{}),
	}
	s := newSyncService(reconciler, nil)

	require.True(t, s.TriggerManualSync(context.Background()))
	require.Eventually(t, func() bool {
		return s.GetStatus()["sync_running"].(bool)
	}, time.Second, 5*time.Millisecond)

	assert.False(t, s.TriggerManualSync(context.Background()))

	close(reconciler.block)
	require.Eventually(t, func() bool {
		return !s.GetStatus()["sync_running"].(bool)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, reconciler.Calls())
}

func TestReconciliationSyncService_BackToBackTriggersStartOneRun(t *testing.T) {
	reconciler := &fakeReconciler{
		result: &domain.ReconciliationRunResult{},
		block:  make(chan struct{}),
	}
	s := newSyncService(reconciler, nil)

	// o segundo disparo vem antes da goroutine do primeiro rodar
	require.True(t, s.TriggerManualSync(context.Background()))
	assert.False(t, s.TriggerManualSync(context.Background()))
	assert.True(t, s.GetStatus()["sync_running"].(bool))

	close(reconciler.block)
	require.Eventually(t, func() bool {
		return !s.GetStatus()["sync_running"].(bool)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, reconciler.Calls())
}

func TestReconciliationSyncService_StartDisabled(t *testing.T) {
	s := newSyncService(&fakeReconciler{}, nil)
	s.config.SyncEnabled = false

	assert.NoError(t, s.Start(context.Background()))
}
