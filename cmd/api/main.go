package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/infrastructure/cache/redis"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository"
	"github.com/vfg2006/adops-finance-api/internal/api"
	"github.com/vfg2006/adops-finance-api/internal/api/handler"
	"github.com/vfg2006/adops-finance-api/internal/config"
	"github.com/vfg2006/adops-finance-api/internal/scheduler"
	"github.com/vfg2006/adops-finance-api/internal/usecases/account"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authenticating"
	"github.com/vfg2006/adops-finance-api/internal/usecases/channel"
	"github.com/vfg2006/adops-finance-api/internal/usecases/ledger"
	"github.com/vfg2006/adops-finance-api/internal/usecases/project"
	"github.com/vfg2006/adops-finance-api/internal/usecases/reconciling"
	"github.com/vfg2006/adops-finance-api/internal/usecases/spending"
	"github.com/vfg2006/adops-finance-api/internal/usecases/topup"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel, cfg.App.LogJSON)
	apiErrors.SetDebug(cfg.App.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	readiness := map[string]handler.Pinger{"postgres": pgConn}

	var revocations authenticating.RevocationStore = authenticating.NewMemoryRevocationStore()
	var locker scheduler.DistributedLocker

	if cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
		}
		defer redisClient.Close()

		revocations = redis.NewRevocationStore(redisClient)
		locker = redis.NewLocker(redisClient)
		readiness["redis"] = redisClient
	} else {
		logrus.Warn("REDIS_ADDRESS não configurado: revogação de tokens em memória e sem lock distribuído")
	}

	userRepo := repository.NewUserRepository()
	projectRepo := repository.NewProjectRepository()
	channelRepo := repository.NewChannelRepository()
	accountRepo := repository.NewAccountRepository()
	spendRepo := repository.NewAdSpendRepository()
	ledgerRepo := repository.NewLedgerRepository()
	topupRepo := repository.NewTopupRepository()
	reconciliationRepo := repository.NewReconciliationRepository()
	auditRepo := repository.NewAuditLogRepository()

	auditor := auditing.NewService(auditRepo, pgConn)

	authenticator := authenticating.NewService(userRepo, pgConn, auditor, revocations, cfg.Auth)
	reconciliationService := reconciling.NewService(reconciliationRepo, spendRepo, ledgerRepo, pgConn, auditor)

	reconciliationSyncService := scheduler.NewReconciliationSyncService(reconciliationService, locker, cfg)
	if err := reconciliationSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de reconciliação automática")
	} else {
		logrus.Info("Agendador de reconciliação automática iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator:  authenticator,
		Projects:       project.NewService(projectRepo, userRepo, pgConn, auditor),
		Channels:       channel.NewService(channelRepo, pgConn, auditor),
		Accounts:       account.NewService(accountRepo, projectRepo, channelRepo, userRepo, pgConn, auditor),
		Spending:       spending.NewService(spendRepo, accountRepo, pgConn, auditor),
		Topups:         topup.NewService(topupRepo, accountRepo, channelRepo, pgConn, auditor),
		Reconciliation: reconciliationService,
		Ledgers:        ledger.NewService(ledgerRepo, accountRepo, projectRepo, channelRepo, pgConn, auditor),
		Auditor:        auditor,
		CronJobs: handler.CronJobServices{
			handler.CronJobTypeReconciliation: reconciliationSyncService,
		},
		Readiness: readiness,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
