package apiErrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adops-finance-api/pkg/log"
)

type envelope struct {
	Data  any `json:"data"`
	Error struct {
		Code    *string `json:"code"`
		Message *string `json:"message"`
	} `json:"error"`
	Meta struct {
		Timestamp string `json:"timestamp"`
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		debug       bool
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "erro de status de topup usa 400",
			err:         NewWithStatus(ErrInvalidStatus, http.StatusBadRequest, "当前状态不允许此操作"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrInvalidStatus,
			wantMessage: "当前状态不允许此操作",
		},
		{
			name:        "conflito usa 409",
			err:         NewWithStatus(ErrInvalidStatus, http.StatusConflict, "同一广告账户该日期的日报已存在"),
			wantStatus:  http.StatusConflict,
			wantCode:    ErrInvalidStatus,
			wantMessage: "同一广告账户该日期的日报已存在",
		},
		{
			name:        "permissão negada",
			err:         PermissionDenied(),
			wantStatus:  http.StatusForbidden,
			wantCode:    ErrPermissionDenied,
			wantMessage: MessagePermissionDenied,
		},
		{
			name:        "APIError embrulhado continua reconhecido",
			err:         fmt.Errorf("camada externa: %w", NotFound("")),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrNotFound,
			wantMessage: MessageNotFound,
		},
		{
			name:        "erro genérico é ocultado",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrInternal,
			wantMessage: MessageInternal,
		},
		{
			name:        "erro genérico em modo debug mostra a mensagem",
			err:         errors.New("pq: connection refused"),
			debug:       true,
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrInternal,
			wantMessage: "pq: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDebug(tt.debug)
			defer SetDebug(false)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/topups", nil)
			ctx, requestID := log.WithRequestID(req.Context(), "")
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			WriteError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decode(t, rec)
			assert.Nil(t, env.Data)
			require.NotNil(t, env.Error.Code)
			assert.Equal(t, tt.wantCode, *env.Error.Code)
			assert.Equal(t, tt.wantMessage, *env.Error.Message)
			assert.Equal(t, requestID, env.Meta.RequestID)
			assert.NotEmpty(t, env.Meta.Timestamp)
		})
	}
}

func TestAPIError_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, New(ErrAuthExpired, "").HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, ValidationFailed("x").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, New("UNKNOWN", "").HTTPStatus())
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("raiz")
	err := Wrap(cause, ErrInternal, MessageInternal)
	assert.True(t, errors.Is(err, cause))
}
