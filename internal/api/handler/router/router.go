package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/middleware"
)

var (
	WithRoutes = func(routes ...Route) ConfigRouter {
		return func(router *Router) {
			router.AddRoutes(routes...)
		}
	}

	// WithPrefix vale para as rotas adicionadas depois dele
	WithPrefix = func(prefix string) ConfigRouter {
		return func(router *Router) {
			router.prefix = prefix
		}
	}
)

// Route descreve um endpoint. Roles vazio significa qualquer usuário
// autenticado (ou público, se o path estiver na lista do AuthMiddleware).
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Roles       []domain.Role
	Middlewares []func(http.Handler) http.Handler // aplicados depois do controle de papel
}

type Router struct {
	router *httprouter.Router
	prefix string
}

type ConfigRouter func(router *Router)

func New(configs ...ConfigRouter) *Router {
	rt := httprouter.New()
	// método desconhecido cai no NotFound, com o mesmo envelope
	rt.HandleMethodNotAllowed = false
	rt.HandleOPTIONS = false
	rt.NotFound = http.HandlerFunc(notFound)

	router := &Router{router: rt}

	for _, config := range configs {
		config(router)
	}

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// AddRoutes registra as rotas com o controle de papel por fora dos middlewares da rota
func (r *Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		var handler http.Handler = route.Handler

		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}

		if len(route.Roles) > 0 {
			handler = middleware.RoleMiddleware(route.Roles...)(handler)
		}

		r.router.Handler(route.Method, r.prefix+route.Path, handler)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	apiErrors.WriteError(w, r, apiErrors.NotFound(apiErrors.MessageRouteNotFound))
}
