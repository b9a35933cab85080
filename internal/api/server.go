package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/internal/api/handler"
	"github.com/vfg2006/adops-finance-api/internal/api/handler/router"
	"github.com/vfg2006/adops-finance-api/internal/config"
	"github.com/vfg2006/adops-finance-api/internal/usecases/account"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authenticating"
	"github.com/vfg2006/adops-finance-api/internal/usecases/channel"
	"github.com/vfg2006/adops-finance-api/internal/usecases/ledger"
	"github.com/vfg2006/adops-finance-api/internal/usecases/project"
	"github.com/vfg2006/adops-finance-api/internal/usecases/reconciling"
	"github.com/vfg2006/adops-finance-api/internal/usecases/spending"
	"github.com/vfg2006/adops-finance-api/internal/usecases/topup"
	"github.com/vfg2006/adops-finance-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// Services agrupa os usecases expostos pela API
type Services struct {
	Authenticator  authenticating.Authenticator
	Projects       project.ProjectService
	Channels       channel.ChannelService
	Accounts       account.AccountService
	Spending       spending.SpendingService
	Topups         topup.TopupService
	Reconciliation reconciling.ReconciliationService
	Ledgers        ledger.LedgerService
	Auditor        auditing.Auditor
	CronJobs       handler.CronJobServices
	Readiness      map[string]handler.Pinger
}

type Server struct {
	httpServer *http.Server
}

func New(config *config.Config, services Services) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, services),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// NewHandler monta o roteador com a cadeia de middlewares. Separado do New
// para os testes usarem com httptest.
func NewHandler(config *config.Config, services Services) http.Handler {
	prefix := config.App.PathPrefix

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.Readiness)...),
		router.WithPrefix(prefix),
		router.WithRoutes(handler.Authentication(services.Authenticator)...),
		router.WithRoutes(handler.User(services.Authenticator)...),
		router.WithRoutes(handler.Projects(services.Projects)...),
		router.WithRoutes(handler.Channels(services.Channels)...),
		router.WithRoutes(handler.AdAccounts(services.Accounts)...),
		router.WithRoutes(handler.AdSpend(services.Spending)...),
		router.WithRoutes(handler.Topups(services.Topups)...),
		router.WithRoutes(handler.Reconciliations(services.Reconciliation)...),
		router.WithRoutes(handler.Ledgers(services.Ledgers)...),
		router.WithRoutes(handler.AuditLogs(services.Auditor)...),
		router.WithRoutes(handler.CronJobs(services.CronJobs)...),
	)

	publicPaths := []string{
		handler.PathHealthz,
		handler.PathReadyz,
		prefix + handler.PathLogin,
		prefix + handler.PathRefreshToken,
	}

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Cors.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator, publicPaths...),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
