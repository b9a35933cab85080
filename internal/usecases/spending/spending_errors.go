package spending

import (
	"errors"
	"net/http"

	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

var (
	ErrDuplicateReport  = errors.New("relatório já existe para a conta nesta data")
	ErrReportNotFound   = errors.New("relatório não encontrado")
	ErrAccountNotFound  = errors.New("conta de anúncio não encontrada")
	ErrInvalidSpend     = errors.New("gasto fora do intervalo")
	ErrInvalidLeads     = errors.New("leads fora do intervalo")
	ErrMissingReportDay = errors.New("data do relatório ausente")
)

const (
	MessageDuplicateReport = "同一广告账户该日期的日报已存在"
	MessageReportNotFound  = "日报不存在"
	MessageAccountNotFound = "广告账户不存在"
	MessageInvalidSpend    = "花费必须在0到10000000.00之间"
	MessageInvalidLeads    = "线索数必须在0到1000000之间"
	MessageMissingDate     = "日期不能为空"
)

func duplicateReport(cause error) *apiErrors.APIError {
	if cause == nil {
		cause = ErrDuplicateReport
	}
	return &apiErrors.APIError{
		Code:    apiErrors.ErrInvalidStatus,
		Status:  http.StatusConflict,
		Message: MessageDuplicateReport,
		Err:     cause,
	}
}

func validationError(err error, message string) *apiErrors.APIError {
	apiErr := apiErrors.ValidationFailed(message)
	apiErr.Err = err
	return apiErr
}
