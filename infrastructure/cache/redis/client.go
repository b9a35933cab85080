package redis

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/internal/config"
)

// Client encapsula o go-redis com o prefixo de chaves da aplicação
type Client struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewClient conecta e valida com PING antes de devolver o cliente
func NewClient(ctx context.Context, cfg config.Redis) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	client := newClient(rdb, cfg.KeyPrefix)
	if err := client.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("erro ao conectar no redis %s: %w", cfg.Address, err)
	}

	logrus.WithFields(logrus.Fields{
		"address": cfg.Address,
		"db":      cfg.DB,
	}).Info("Conexão com o Redis estabelecida")

	return client, nil
}

func newClient(rdb goredis.UniversalClient, prefix string) *Client {
	return &Client{rdb: rdb, prefix: prefix}
}

// Key monta a chave com o prefixo configurado, separando as partes por ":"
func (c *Client) Key(parts ...string) string {
	return c.prefix + strings.Join(parts, ":")
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
