package reconciling

import (
	"errors"
	"net/http"

	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

var (
	ErrReconciliationNotFound = errors.New("reconciliação não encontrada")
	ErrSpendNotFound          = errors.New("relatório diário não encontrado")
	ErrLedgerNotFound         = errors.New("lançamento financeiro não encontrado")
	ErrAccountMismatch        = errors.New("relatório ou lançamento de outra conta")
	ErrAlreadyReconciled      = errors.New("par relatório/lançamento já reconciliado")
	ErrInvalidReview          = errors.New("ação de revisão não se aplica ao status atual")
	ErrInvalidDiff            = errors.New("diferença negativa")
)

const (
	MessageReconciliationNotFound = "对账记录不存在"
	MessageSpendNotFound          = "日报不存在"
	MessageLedgerNotFound         = "财务流水不存在"
	MessageAccountMismatch        = "日报或财务流水不属于该广告账户"
	MessageAlreadyReconciled      = "该日报与财务流水已对账"
	MessageInvalidStatus          = "当前状态不允许此操作"
	MessageInvalidDiff            = "差额和日期差不能为负数"
	MessageInvalidAction          = "无效的审核操作"
)

func alreadyReconciled(cause error) *apiErrors.APIError {
	return &apiErrors.APIError{
		Code:    apiErrors.ErrInvalidStatus,
		Status:  http.StatusConflict,
		Message: MessageAlreadyReconciled,
		Err:     cause,
	}
}

func invalidReview() *apiErrors.APIError {
	return &apiErrors.APIError{
		Code:    apiErrors.ErrInvalidStatus,
		Status:  http.StatusBadRequest,
		Message: MessageInvalidStatus,
		Err:     ErrInvalidReview,
	}
}
