package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientKey(t *testing.T) {
	client := newClient(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"}), "adops:")

	assert.Equal(t, "adops:revoked:abc", client.Key(revokedNamespace, "abc"))
	assert.Equal(t, "adops:lock:reconciliation", client.Key(lockNamespace, "reconciliation"))
}

func TestRevocationStoreIgnoresExpiredTokens(t *testing.T) {
	// sem servidor: ttl <= 0 não pode chegar ao redis
	client := newClient(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"}), "adops:")
	store := NewRevocationStore(client)

	require.NoError(t, store.Revoke(context.Background(), "jti", 0))
	require.NoError(t, store.Revoke(context.Background(), "jti", -time.Second))
}
