package handler

import (
	"net/http"

	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/channel"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

func ListChannels(service channel.ChannelService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := newQueryParser(r)
		filter := domain.ChannelFilter{
			IsActive: q.Bool("is_active"),
			Page:     q.Page(),
		}
		if err := q.Err(); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		channels, total, err := service.ListChannels(r.Context(), filter)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		writeList(w, r, channels, filter.Page, total)
	})
}

func GetChannel(service channel.ChannelService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		c, err := service.GetChannel(r.Context(), id)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, c)
	})
}

func CreateChannel(service channel.ChannelService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.CreateChannelRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		c, err := service.CreateChannel(r.Context(), caller, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusCreated, c)
	})
}

func UpdateChannel(service channel.ChannelService) http.Handler {
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

		var req domain.UpdateChannelRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		c, err := service.UpdateChannel(r.Context(), caller, id, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, c)
	})
}
