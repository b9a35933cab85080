package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authenticating"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/log"
)

type contextKey string

const (
	ContextKeyCaller contextKey = "caller"
)

// AuthMiddleware resolve o bearer token em um domain.Caller. Rotas públicas
// passam direto, sem olhar o header.
func AuthMiddleware(resolver authenticating.Resolver, publicPaths ...string) func(http.Handler) http.Handler {
	public := make(map[string]struct{}, len(publicPaths))
	for _, path := range publicPaths {
		public[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := public[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			token, ok := bearerToken(authHeader)
			if !ok {
				apiErrors.WriteError(w, r, apiErrors.New(apiErrors.ErrAuthInvalidToken, authenticating.MessageInvalidToken))
				return
			}

			caller, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"path":  r.URL.Path,
					"error": err.Error(),
				}).Warn("Autenticação recusada")
				apiErrors.WriteError(w, r, err)
				return
			}

			caller.IP = ClientIP(r)

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// bearerToken devolve ok=false só quando há header em formato inválido.
// Header ausente vira token vazio para o resolver responder AUTH_MISSING_TOKEN.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", true
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithCaller(ctx context.Context, caller *domain.Caller) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, caller)
}

func CallerFromContext(ctx context.Context) (*domain.Caller, bool) {
	caller, ok := ctx.Value(ContextKeyCaller).(*domain.Caller)
	return caller, ok && caller != nil
}

// ClientIP usa o primeiro salto do X-Forwarded-For, senão o RemoteAddr
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
