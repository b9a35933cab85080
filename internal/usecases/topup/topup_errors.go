package topup

import (
	"errors"
	"net/http"

	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

var (
	ErrInvalidTransition = errors.New("transição de topup não permitida")
	ErrTopupNotFound     = errors.New("topup não encontrado")
	ErrAccountNotFound   = errors.New("conta de anúncio não encontrada")
	ErrChannelNotFound   = errors.New("canal não encontrado")
	ErrAccountMismatch   = errors.New("projeto ou canal diferente do da conta")
	ErrInvalidAmount     = errors.New("valor do topup inválido")
)

const (
	MessageInvalidStatus   = "当前状态不允许此操作"
	MessageTopupNotFound   = "充值申请不存在"
	MessageAccountNotFound = "广告账户不存在"
	MessageChannelNotFound = "渠道不存在"
	MessageAccountMismatch = "项目或渠道与广告账户不一致"
	MessageInvalidAmount   = "充值金额必须大于0且最多两位小数"
)

func invalidStatus() *apiErrors.APIError {
	return &apiErrors.APIError{
		Code:    apiErrors.ErrInvalidStatus,
		Status:  http.StatusBadRequest,
		Message: MessageInvalidStatus,
		Err:     ErrInvalidTransition,
	}
}
