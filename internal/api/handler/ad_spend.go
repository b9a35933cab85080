package handler

import (
	"net/http"

	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/spending"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

// SubmitSpendReport grava o relatório diário; o anomaly é calculado no serviço
func SubmitSpendReport(service spending.SpendingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.SubmitReportRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		report, err := service.SubmitReport(r.Context(), caller, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusCreated, report)
	})
}

func ListSpendReports(service spending.SpendingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		q := newQueryParser(r)
		filter := domain.AdSpendFilter{
			AdAccountID: q.UUID("ad_account_id"),
			DateFrom:    q.Date("date_from"),
			DateTo:      q.Date("date_to"),
			IsAnomaly:   q.Bool("is_anomaly"),
			Page:        q.Page(),
		}
		if err := q.Err(); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		reports, total, err := service.ListReports(r.Context(), caller, filter)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		writeList(w, r, reports, filter.Page, total)
	})
}

func GetSpendReport(service spending.SpendingService) http.Handler {
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

		report, err := service.GetReport(r.Context(), caller, id)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, report)
	})
}
