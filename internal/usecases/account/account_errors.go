package account

import (
	"errors"
	"net/http"

	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

// Erros específicos para o contexto de contas
var (
	// Erros de validação
	ErrAccountNotFound    = errors.New("account not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrChannelNotFound    = errors.New("channel not found")
	ErrChannelInactive    = errors.New("channel is inactive")
	ErrAssigneeNotFound   = errors.New("assigned user not found")
	ErrAssigneeInactive   = errors.New("assigned user is inactive")
	ErrInvalidStatusValue = errors.New("unknown account status")

	// Erros da máquina de status
	ErrInvalidTransition = errors.New("account status transition not allowed")
	ErrDeadReasonMissing = errors.New("dead_reason is required when moving to dead")
)

const (
	MessageAccountNotFound  = "广告账户不存在"
	MessageProjectNotFound  = "项目不存在"
	MessageChannelNotFound  = "渠道不存在"
	MessageChannelInactive  = "渠道已停用"
	MessageAssigneeNotFound = "分配的用户不存在"
	MessageAssigneeInactive = "分配的用户已停用"
	MessageInvalidStatus    = "当前状态不允许此操作"
	MessageDeadReason       = "账户停用时必须填写原因"
	MessageUnknownStatus    = "无效的账户状态"
)

// transições inválidas de conta respondem 422, diferente do topup
func invalidStatus(err error, message string) *apiErrors.APIError {
	return &apiErrors.APIError{
		Code:    apiErrors.ErrInvalidStatus,
		Status:  http.StatusUnprocessableEntity,
		Message: message,
		Err:     err,
	}
}
