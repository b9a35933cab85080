package middleware

import (
	"net/http"

	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authenticating"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authorizing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/log"
)

// RoleMiddleware restringe o acesso aos papéis informados. Roda antes de
// qualquer leitura do corpo, então papel errado nunca vira erro de validação.
func RoleMiddleware(allowedRoles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				log.ForContext(r.Context()).Warn("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, r, apiErrors.New(apiErrors.ErrAuthMissingToken, authenticating.MessageMissingToken))
				return
			}

			if _, ok := allowed[caller.Role]; !ok {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"user_id": caller.ID,
					"role":    caller.Role,
					"path":    r.URL.Path,
				}).Warn("Acesso negado pelo papel do usuário")
				apiErrors.WriteError(w, r, apiErrors.PermissionDenied())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission confere a permissão estática do papel
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				apiErrors.WriteError(w, r, apiErrors.New(apiErrors.ErrAuthMissingToken, authenticating.MessageMissingToken))
				return
			}

			if !authorizing.HasPermission(caller.Role, permission) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"user_id":    caller.ID,
					"permission": permission,
				}).Warn("Permissão ausente")
				apiErrors.WriteError(w, r, apiErrors.PermissionDenied())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
