package handler

import (
	"net/http"

	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

func ListAuditLogs(service auditing.Auditor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := newQueryParser(r)
		filter := domain.AuditLogFilter{
			TargetTable: q.String("target_table"),
			TargetID:    q.UUID("target_id"),
			ActorID:     q.UUID("actor_id"),
			Action:      q.String("action"),
			Page:        q.Page(),
		}
		if err := q.Err(); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		logs, total, err := service.List(r.Context(), filter)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		writeList(w, r, logs, filter.Page, total)
	})
}
