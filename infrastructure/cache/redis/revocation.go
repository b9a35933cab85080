package redis

import (
	"context"
	"fmt"
	"time"
)

const revokedNamespace = "revoked"

// RevocationStore guarda os jti revogados com expiração igual ao restante da
// validade do token, compartilhado entre instâncias.
type RevocationStore struct {
	client *Client
}

func NewRevocationStore(client *Client) *RevocationStore {
	return &RevocationStore{client: client}
}

func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := s.client.rdb.Set(ctx, s.client.Key(revokedNamespace, jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("erro ao revogar token: %w", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.rdb.Exists(ctx, s.client.Key(revokedNamespace, jti)).Result()
	if err != nil {
		return false, fmt.Errorf("erro ao consultar revogação de token: %w", err)
	}
	return n > 0, nil
}
