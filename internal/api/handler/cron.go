package handler

import (
	"context"
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

// Tipos de cron job aceitos em /cron/:type/run
const (
	CronJobTypeReconciliation = "reconciliation"
	CronJobTypeAll            = "all"
)

const (
	MessageInvalidCronType = "无效的定时任务类型"
	MessageCronUnavailable = "定时任务服务不可用"
)

// CronJob é um agendador que aceita execução manual
type CronJob interface {
	TriggerManualSync(ctx context.Context) bool
	GetStatus() map[string]any
}

// CronJobServices indexa os agendadores pelo tipo usado na URL
type CronJobServices map[string]CronJob

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		logrus.WithField("type", cronType).Info("INIT - RunCronJob")

		var targets []string
		switch {
		case cronType == CronJobTypeAll:
			for name := range services {
				targets = append(targets, name)
			}
			sort.Strings(targets)
		case services[cronType] != nil:
			targets = []string{cronType}
		default:
			apiErrors.WriteError(w, r, apiErrors.InvalidParam(MessageInvalidCronType))
			return
		}

		if len(targets) == 0 {
			apiErrors.WriteError(w, r, apiErrors.NewWithStatus(apiErrors.ErrInternal, http.StatusServiceUnavailable, MessageCronUnavailable))
			return
		}

		started := make(map[string]bool, len(targets))
		for _, name := range targets {
			started[name] = services[name].TriggerManualSync(r.Context())
		}

		response.JSON(w, r, http.StatusAccepted, map[string]any{
			"type":    cronType,
			"started": started,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]map[string]any, len(services))
		for name, job := range services {
			status[name] = job.GetStatus()
		}

		response.JSON(w, r, http.StatusOK, status)
	})
}
