package authenticating

import (
	"context"
	"sync"
	"time"
)

// RevocationStore guarda os jti revogados até o exp do token
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocationStore é usado quando o Redis não está configurado. Não
// sobrevive a reinícios.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[jti] = m.now().Add(ttl)
	m.purgeLocked()
	return nil
}

func (m *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.entries[jti]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.entries, jti)
		return false, nil
	}
	return true, nil
}

// Len devolve o número de entradas ainda válidas
func (m *MemoryRevocationStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeLocked()
	return len(m.entries)
}

func (m *MemoryRevocationStore) purgeLocked() {
	now := m.now()
	for jti, until := range m.entries {
		if !now.Before(until) {
			delete(m.entries, jti)
		}
	}
}
