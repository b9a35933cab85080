package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
)

const lockNamespace = "lock"

// Locker dá exclusão mútua entre instâncias para jobs agendados
type Locker struct {
	client *Client
	locks  *redislock.Client
}

func NewLocker(client *Client) *Locker {
	return &Locker{
		client: client,
		locks:  redislock.New(client.rdb),
	}
}

// Acquire tenta obter o lock sem retry. ok=false indica que outra instância
// já está com ele; release deve ser chamado ao terminar.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error) {
	lock, err := l.locks.Obtain(ctx, l.client.Key(lockNamespace, key), ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("erro ao obter lock %s: %w", key, err)
	}

	release = func(ctx context.Context) error {
		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			return nil
		}
		return err
	}
	return release, true, nil
}
