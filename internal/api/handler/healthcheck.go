package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

const (
	readinessTimeout    = 2 * time.Second
	MessageNotReady     = "服务暂不可用"
	readinessStatusOK   = "ok"
	readinessStatusDown = "down"
)

// Pinger é qualquer dependência que o /readyz precisa alcançar
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{
			"status": readinessStatusOK,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// ReadinessHandler pinga cada dependência; qualquer falha devolve 503
func ReadinessHandler(deps map[string]Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		ready := true
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				logrus.WithError(err).WithField("dependency", name).Warn("Dependência indisponível no readiness")
				checks[name] = readinessStatusDown
				ready = false
				continue
			}
			checks[name] = readinessStatusOK
		}

		if !ready {
			apiErrors.WriteError(w, r, apiErrors.NewWithStatus(apiErrors.ErrInternal, http.StatusServiceUnavailable, MessageNotReady))
			return
		}

		response.JSON(w, r, http.StatusOK, map[string]any{
			"status": readinessStatusOK,
			"checks": checks,
		})
	})
}
