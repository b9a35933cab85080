package handler

import (
	"net/http"

	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/account"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

func AdAccountList(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		q := newQueryParser(r)
		filter := domain.AdAccountFilter{
			ProjectID: q.UUID("project_id"),
			ChannelID: q.UUID("channel_id"),
			Page:      q.Page(),
		}
		if status := q.String("status"); status != nil {
			value := domain.AdAccountStatus(*status)
			if !value.IsValid() {
				apiErrors.WriteError(w, r, apiErrors.InvalidParam(account.MessageUnknownStatus))
				return
			}
			filter.Status = &value
		}
		if err := q.Err(); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		adAccounts, total, err := service.ListAccounts(r.Context(), caller, filter)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		writeList(w, r, adAccounts, filter.Page, total)
	})
}

func GetAdAccount(service account.AccountService) http.Handler {
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

		adAccount, err := service.GetAccount(r.Context(), caller, id)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, adAccount)
	})
}

func CreateAdAccount(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.CreateAdAccountRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		adAccount, err := service.CreateAccount(r.Context(), caller, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusCreated, adAccount)
	})
}

func UpdateAdAccount(service account.AccountService) http.Handler {
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

		var req domain.UpdateAdAccountRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		adAccount, err := service.UpdateAccount(r.Context(), caller, id, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, adAccount)
	})
}

// TransitionAdAccount move a conta na máquina de estados (new, testing, active...)
func TransitionAdAccount(service account.AccountService) http.Handler {
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

		var req domain.TransitionAdAccountRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		adAccount, err := service.TransitionAccount(r.Context(), caller, id, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, adAccount)
	})
}
