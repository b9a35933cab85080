package apiErrors

import (
	"net/http"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/vfg2006/adops-finance-api/pkg/log"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

// Códigos de erro expostos no envelope. São o contrato com os clientes.
const (
	// Autenticação
	ErrAuthMissingToken       = "AUTH_MISSING_TOKEN"
	ErrAuthInvalidToken       = "AUTH_INVALID_TOKEN"
	ErrAuthExpired            = "AUTH_EXPIRED"
	ErrAuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	ErrAuthInactiveUser       = "AUTH_INACTIVE_USER"
	ErrAuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"

	// Autorização
	ErrPermissionDenied = "PERMISSION_DENIED"

	// Validação e estado
	ErrInvalidParam  = "INVALID_PARAM"
	ErrInvalidStatus = "INVALID_STATUS"
	ErrNotFound      = "NOT_FOUND"

	// Servidor
	ErrInternal = "INTERNAL_ERROR"
)

// Status HTTP padrão por código. INVALID_STATUS e INVALID_PARAM variam
// conforme a operação e normalmente chegam com Status explícito.
var httpStatusMap = map[string]int{
	ErrAuthMissingToken:       http.StatusUnauthorized,
	ErrAuthInvalidToken:       http.StatusUnauthorized,
	ErrAuthExpired:            http.StatusUnauthorized,
	ErrAuthTokenRevoked:       http.StatusUnauthorized,
	ErrAuthInactiveUser:       http.StatusUnauthorized,
	ErrAuthInvalidCredentials: http.StatusUnauthorized,
	ErrPermissionDenied:       http.StatusForbidden,
	ErrInvalidParam:           http.StatusBadRequest,
	ErrInvalidStatus:          http.StatusBadRequest,
	ErrNotFound:               http.StatusNotFound,
	ErrInternal:               http.StatusInternalServerError,
}

const (
	MessageInternal         = "服务器内部错误"
	MessagePermissionDenied = "没有权限执行此操作"
	MessageNotFound         = "资源不存在"
	MessageRouteNotFound    = "接口不存在"
	MessageInvalidBody      = "请求体格式错误"
)

var debug atomic.Bool

// SetDebug libera a mensagem original de erros internos na resposta
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// APIError é o erro tipado que os usecases devolvem para a camada HTTP
type APIError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatus usa o status explícito ou o padrão do código
func (e *APIError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	if status, ok := httpStatusMap[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func New(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func NewWithStatus(code string, status int, message string) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

// Wrap mantém o erro original para log e errors.Is
func Wrap(err error, code, message string) *APIError {
	return &APIError{Code: code, Message: message, Err: err}
}

func PermissionDenied() *APIError {
	return New(ErrPermissionDenied, MessagePermissionDenied)
}

func NotFound(message string) *APIError {
	if message == "" {
		message = MessageNotFound
	}
	return New(ErrNotFound, message)
}

func InvalidParam(message string) *APIError {
	return New(ErrInvalidParam, message)
}

// ValidationFailed é o INVALID_PARAM de corpo bem formado mas com campos inválidos
func ValidationFailed(message string) *APIError {
	return NewWithStatus(ErrInvalidParam, http.StatusUnprocessableEntity, message)
}

func Internal(err error) *APIError {
	return Wrap(err, ErrInternal, MessageInternal)
}

// Write escreve o envelope de erro para um código conhecido
func Write(w http.ResponseWriter, r *http.Request, code, message string) {
	status, ok := httpStatusMap[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	response.Error(w, r, status, code, message)
}

// WriteError converte qualquer erro no envelope padrão. Erros que não são
// APIError viram INTERNAL_ERROR com a mensagem ocultada fora do modo debug.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = Internal(err)
	}

	status := apiErr.HTTPStatus()
	message := apiErr.Message

	if status >= http.StatusInternalServerError {
		log.ForContext(r.Context()).WithError(err).Error("Erro interno ao processar requisição")
		if debug.Load() && err != nil {
			message = err.Error()
		}
	}

	response.Error(w, r, status, apiErr.Code, message)
}
