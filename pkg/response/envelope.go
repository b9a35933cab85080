package response

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const RequestIDHeader = "X-Request-ID"

type ErrorBody struct {
	Code    *string `json:"code"`
	Message *string `json:"message"`
}

type Meta struct {
	Timestamp  string             `json:"timestamp"`
	RequestID  string             `json:"request_id"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

// Envelope é o formato único de resposta. Data e Error.Code nunca vêm
// preenchidos ao mesmo tempo.
type Envelope[T any] struct {
	Data  *T        `json:"data"`
	Error ErrorBody `json:"error"`
	Meta  Meta      `json:"meta"`
}

func newMeta(w http.ResponseWriter, r *http.Request) Meta {
	requestID := ""
	if r != nil {
		requestID = log.GetRequestID(r.Context())
	}
	if requestID == "" {
		requestID = uuid.New().String()
		w.Header().Set(RequestIDHeader, requestID)
	}

	return Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func write[T any](w http.ResponseWriter, status int, env Envelope[T]) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}

// JSON escreve uma resposta de sucesso
func JSON[T any](w http.ResponseWriter, r *http.Request, status int, data T) {
	write(w, status, Envelope[T]{
		Data: &data,
		Meta: newMeta(w, r),
	})
}

// List escreve uma lista paginada; listas vazias saem como [] e não null
func List[T any](w http.ResponseWriter, r *http.Request, items []T, pagination domain.Pagination) {
	if items == nil {
		items = []T{}
	}

	meta := newMeta(w, r)
	meta.Pagination = &pagination

	write(w, http.StatusOK, Envelope[[]T]{
		Data: &items,
		Meta: meta,
	})
}

// Error escreve uma resposta de erro com data nulo
func Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	write(w, status, Envelope[any]{
		Error: ErrorBody{Code: &code, Message: &message},
		Meta:  newMeta(w, r),
	})
}
