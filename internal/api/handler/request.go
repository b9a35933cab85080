package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authenticating"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/middleware"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

const (
	MessageInvalidPath  = "路径参数格式错误"
	MessageInvalidQuery = "查询参数 %s 格式错误"
	MessageValidation   = "字段 %s 校验失败(%s)"
)

var validate = newValidator()

// newValidator reporta os campos pelo nome do json, que é o que o cliente enviou
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody lê o JSON do corpo. Corpo malformado é 400, campo inválido é 422.
func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apiErrors.Wrap(err, apiErrors.ErrInvalidParam, apiErrors.MessageInvalidBody)
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apiErrors.Wrap(err, apiErrors.ErrInvalidParam, apiErrors.MessageInvalidBody)
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return apiErrors.ValidationFailed(fmt.Sprintf(MessageValidation, first.Field(), first.Tag()))
		}
		return apiErrors.Wrap(err, apiErrors.ErrInvalidParam, apiErrors.MessageInvalidBody)
	}

	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(httprouter.ParamsFromContext(r.Context()).ByName(name))
	if err != nil {
		return uuid.Nil, apiErrors.Wrap(err, apiErrors.ErrInvalidParam, MessageInvalidPath)
	}
	return id, nil
}

// callerFrom devolve o usuário resolvido pelo AuthMiddleware
func callerFrom(r *http.Request) (*domain.Caller, error) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		return nil, apiErrors.New(apiErrors.ErrAuthMissingToken, authenticating.MessageMissingToken)
	}
	return caller, nil
}

// queryParser acumula o primeiro erro de conversão dos filtros
type queryParser struct {
	values url.Values
	err    error
}

func newQueryParser(r *http.Request) *queryParser {
	return &queryParser{values: r.URL.Query()}
}

func (q *queryParser) fail(name string, err error) {
	if q.err == nil {
		q.err = apiErrors.Wrap(err, apiErrors.ErrInvalidParam, fmt.Sprintf(MessageInvalidQuery, name))
	}
}

func (q *queryParser) raw(name string) (string, bool) {
	v := strings.TrimSpace(q.values.Get(name))
	return v, v != ""
}

func (q *queryParser) String(name string) *string {
	v, ok := q.raw(name)
	if !ok {
		return nil
	}
	return &v
}

func (q *queryParser) Int(name string, fallback int) int {
	v, ok := q.raw(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.fail(name, err)
		return fallback
	}
	return n
}

func (q *queryParser) Bool(name string) *bool {
	v, ok := q.raw(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.fail(name, err)
		return nil
	}
	return &b
}

func (q *queryParser) UUID(name string) *uuid.UUID {
	v, ok := q.raw(name)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		q.fail(name, err)
		return nil
	}
	return &id
}

func (q *queryParser) Date(name string) *domain.Date {
	v, ok := q.raw(name)
	if !ok {
		return nil
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		q.fail(name, err)
		return nil
	}
	return &d
}

// Time aceita RFC3339 ou só a data (meia-noite UTC)
func (q *queryParser) Time(name string) *time.Time {
	v, ok := q.raw(name)
	if !ok {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		q.fail(name, err)
		return nil
	}
	return &d.Time
}

func (q *queryParser) Page() domain.Page {
	return domain.NewPage(q.Int("page", 1), q.Int("page_size", domain.DefaultPageSize))
}

func (q *queryParser) Err() error {
	return q.err
}

func writeList[T any](w http.ResponseWriter, r *http.Request, items []T, page domain.Page, total int) {
	response.List(w, r, items, domain.NewPagination(page, total))
}
