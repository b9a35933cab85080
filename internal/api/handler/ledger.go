package handler

import (
	"net/http"

	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/ledger"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

func ListLedgers(service ledger.LedgerService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := newQueryParser(r)
		filter := domain.LedgerFilter{
			AdAccountID: q.UUID("ad_account_id"),
			From:        q.Time("from"),
			To:          q.Time("to"),
			Page:        q.Page(),
		}
		if typ := q.String("type"); typ != nil {
			value := domain.LedgerType(*typ)
			if !value.IsValid() {
				apiErrors.WriteError(w, r, apiErrors.InvalidParam(ledger.MessageInvalidType))
				return
			}
			filter.Type = &value
		}
		if err := q.Err(); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		entries, total, err := service.ListLedgers(r.Context(), filter)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		writeList(w, r, entries, filter.Page, total)
	})
}

func GetLedger(service ledger.LedgerService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		entry, err := service.GetLedger(r.Context(), id)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, entry)
	})
}

func CreateLedger(service ledger.LedgerService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.CreateLedgerRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		entry, err := service.CreateLedger(r.Context(), caller, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusCreated, entry)
	})
}
