package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/topup"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

const MessageInvalidTopupStatus = "无效的充值状态"

type topupTransition func(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.TopupTransitionRequest) (*domain.Topup, error)

func CreateTopup(service topup.TopupService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.CreateTopupRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		t, err := service.Create(r.Context(), caller, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusCreated, t)
	})
}

// TransitionTopup atende approve, pay, confirm e reject, que só mudam na função chamada
func TransitionTopup(transition topupTransition) http.Handler {
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

		var req domain.TopupTransitionRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		t, err := transition(r.Context(), caller, id, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, t)
	})
}

func GetTopup(service topup.TopupService) http.Handler {
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

		t, err := service.Get(r.Context(), caller, id)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, t)
	})
}

func ListTopups(service topup.TopupService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		q := newQueryParser(r)
		filter := domain.TopupFilter{
			AdAccountID: q.UUID("ad_account_id"),
			ProjectID:   q.UUID("project_id"),
			Page:        q.Page(),
		}
		if status := q.String("status"); status != nil {
			value := domain.TopupStatus(*status)
			if !value.IsValid() {
				apiErrors.WriteError(w, r, apiErrors.InvalidParam(MessageInvalidTopupStatus))
				return
			}
			filter.Status = &value
		}
		if err := q.Err(); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		topups, total, err := service.List(r.Context(), caller, filter)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		writeList(w, r, topups, filter.Page, total)
	})
}
