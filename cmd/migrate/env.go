package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/migration"
	"github.com/vfg2006/adops-finance-api/internal/config"
)

// migrateEnv junta a conexão e o migrator usados pelos subcomandos
type migrateEnv struct {
	conn     *postgres.Connection
	migrator *migration.Migrator
}

func openEnv(ctx context.Context) (*migrateEnv, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.NewDatabaseConfig()
	if err != nil {
		return nil, err
	}

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	migrator, err := migration.New(conn.DB.DB)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &migrateEnv{conn: conn, migrator: migrator}, nil
}

func (e *migrateEnv) logVersion() error {
	version, dirty, err := e.migrator.Version()
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("Versão do schema")
	return nil
}

// Close fecha o migrator, que também fecha a conexão do driver
func (e *migrateEnv) Close() {
	if err := e.migrator.Close(); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Warn("Erro ao fechar migrator")
	}
}
