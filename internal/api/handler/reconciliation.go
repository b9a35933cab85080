package handler

import (
	"net/http"

	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/reconciling"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

const (
	MessageInvalidReconciliationStatus = "无效的对账状态"
	MessageInvalidMatchType            = "无效的匹配类型"
)

// RunAutoReconciliation executa o lote na própria requisição e devolve os contadores
func RunAutoReconciliation(service reconciling.ReconciliationService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		result, err := service.RunAuto(r.Context(), caller)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, result)
	})
}

func CreateManualReconciliation(service reconciling.ReconciliationService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.CreateReconciliationRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		rec, err := service.CreateManual(r.Context(), caller, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusCreated, rec)
	})
}

func ReviewReconciliation(service reconciling.ReconciliationService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.ReviewReconciliationRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		rec, err := service.Review(r.Context(), caller, id, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, rec)
	})
}

func GetReconciliation(service reconciling.ReconciliationService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		rec, err := service.Get(r.Context(), caller, id)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, rec)
	})
}

func ListReconciliations(service reconciling.ReconciliationService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		q := newQueryParser(r)
		filter := domain.ReconciliationFilter{
			AdAccountID: q.UUID("ad_account_id"),
			Page:        q.Page(),
		}
		if status := q.String("status"); status != nil {
			value := domain.ReconciliationStatus(*status)
			if !value.IsValid() {
				apiErrors.WriteError(w, r, apiErrors.InvalidParam(MessageInvalidReconciliationStatus))
				return
			}
			filter.Status = &value
		}
		if matchType := q.String("match_type"); matchType != nil {
			value := domain.MatchType(*matchType)
			if !value.IsValid() {
				apiErrors.WriteError(w, r, apiErrors.InvalidParam(MessageInvalidMatchType))
				return
			}
			filter.MatchType = &value
		}
		if err := q.Err(); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		recs, total, err := service.List(r.Context(), caller, filter)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		writeList(w, r, recs, filter.Page, total)
	})
}
