package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authenticating"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

func Login(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		tokens, err := service.Login(r.Context(), req)
		if err != nil {
			logrus.WithField("email", req.Email).Info("Tentativa de login recusada")
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, tokens)
	})
}

func RefreshToken(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.RefreshRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		tokens, err := service.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, tokens)
	})
}

// Logout revoga o token de acesso atual e, se enviado, o refresh token
func Logout(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.LogoutRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		if err := service.Logout(r.Context(), caller, req.RefreshToken); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, map[string]bool{"logged_out": true})
	})
}

func GetMe(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		me, err := service.Me(r.Context(), caller)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, me)
	})
}
