package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authorizing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/log"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

type envelope struct {
	Data  any `json:"data"`
	Error struct {
		Code    *string `json:"code"`
		Message *string `json:"message"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type resolverFunc func(ctx context.Context, token string) (*domain.Caller, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*domain.Caller, error) {
	return f(ctx, token)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	resolver := resolverFunc(func(ctx context.Context, token string) (*domain.Caller, error) {
		switch token {
		case "":
			return nil, apiErrors.New(apiErrors.ErrAuthMissingToken, "缺少认证令牌")
		case "good":
			return &domain.Caller{ID: userID, Role: domain.RoleFinance}, nil
		default:
			return nil, apiErrors.New(apiErrors.ErrAuthExpired, "认证令牌已过期")
		}
	})

	tests := []struct {
		name       string
		path       string
		header     string
		forwarded  string
		wantStatus int
		wantCode   string
		validate   func(t *testing.T, caller *domain.Caller)
	}{
		{
			name:       "rota pública dispensa token",
			path:       "/healthz",
			wantStatus: http.StatusOK,
		},
		{
			name:       "sem header",
			path:       "/api/v1/projects",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrAuthMissingToken,
		},
		{
			name:       "esquema diferente de bearer",
			path:       "/api/v1/projects",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrAuthInvalidToken,
		},
		{
			name:       "token expirado",
			path:       "/api/v1/projects",
			header:     "Bearer old",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrAuthExpired,
		},
		{
			name:       "token válido com X-Forwarded-For",
			path:       "/api/v1/projects",
			header:     "bearer good",
			forwarded:  "203.0.113.7, 10.0.0.1",
			wantStatus: http.StatusOK,
			validate: func(t *testing.T, caller *domain.Caller) {
				require.NotNil(t, caller)
				assert.Equal(t, userID, caller.ID)
				assert.Equal(t, "203.0.113.7", caller.IP)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *domain.Caller
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = CallerFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(resolver, "/healthz", "/readyz")(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				env := decode(t, rec)
				require.NotNil(t, env.Error.Code)
				assert.Equal(t, tt.wantCode, *env.Error.Code)
				assert.Nil(t, env.Data)
			}
			if tt.validate != nil {
				tt.validate(t, got)
			}
		})
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:54321"
	assert.Equal(t, "192.0.2.10", ClientIP(req))
}

func TestRoleMiddlewareDeniesEveryOtherRole(t *testing.T) {
	allowed := map[domain.Role]bool{domain.RoleAdmin: true, domain.RoleFinance: true}
	gate := RoleMiddleware(domain.RoleAdmin, domain.RoleFinance)(okHandler)

	for _, role := range domain.AllRoles {
		t.Run(string(role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reconciliations/auto", nil)
			req = req.WithContext(WithCaller(req.Context(), &domain.Caller{ID: uuid.New(), Role: role}))
			rec := httptest.NewRecorder()

			gate.ServeHTTP(rec, req)

			if allowed[role] {
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, apiErrors.ErrPermissionDenied, *decode(t, rec).Error.Code)
		})
	}
}

func TestRoleMiddlewareWithoutCaller(t *testing.T) {
	rec := httptest.NewRecorder()
	RoleMiddleware(domain.RoleAdmin)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	gate := RequirePermission(authorizing.PermReconciliation)(okHandler)

	for role, want := range map[domain.Role]int{
		domain.RoleAdmin:        http.StatusOK,
		domain.RoleFinance:      http.StatusOK,
		domain.RoleDataOperator: http.StatusForbidden,
		domain.RoleManager:      http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithCaller(req.Context(), &domain.Caller{ID: uuid.New(), Role: role}))
		rec := httptest.NewRecorder()

		gate.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, string(role))
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	incoming := uuid.New().String()

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "mantém UUID recebido", header: incoming, keep: true},
		{name: "substitui valor que não é UUID", header: "abc-123", keep: false},
		{name: "gera quando ausente", header: "", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = log.GetRequestID(r.Context())
				response.JSON(w, r, http.StatusOK, map[string]string{"ok": "true"})
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(response.RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			RequestIDMiddleware()(next).ServeHTTP(rec, req)

			echoed := rec.Header().Get(response.RequestIDHeader)
			_, err := uuid.Parse(echoed)
			require.NoError(t, err)
			assert.Equal(t, echoed, fromCtx)
			assert.Equal(t, echoed, decode(t, rec).Meta.RequestID)
			if tt.keep {
				assert.Equal(t, incoming, echoed)
			} else {
				assert.NotEqual(t, tt.header, echoed)
			}
		})
	}
}

func TestLogPanicMiddlewareWritesEnvelope(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	LogPanicMiddleware()(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, apiErrors.ErrInternal, *env.Error.Code)
	assert.NotContains(t, *env.Error.Message, "boom")
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"https://app.example.com"})(okHandler)

	t.Run("preflight de origem liberada", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/topups", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origem desconhecida sem headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/topups", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
