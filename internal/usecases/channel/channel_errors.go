package channel

import (
	"errors"
	"net/http"

	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrDuplicateName   = errors.New("channel name already exists")
	ErrInvalidFeeType  = errors.New("unknown service fee type")
	ErrInvalidFee      = errors.New("service fee out of range")
)

const (
	MessageChannelNotFound = "渠道不存在"
	MessageDuplicateName   = "渠道名称已存在"
	MessageInvalidFeeType  = "无效的服务费类型"
	MessageInvalidPercent  = "百分比服务费必须在0到100之间且最多两位小数"
	MessageInvalidFixed    = "固定服务费不能为负数且最多两位小数"
)

func duplicateName(cause error) *apiErrors.APIError {
	return &apiErrors.APIError{
		Code:    apiErrors.ErrInvalidStatus,
		Status:  http.StatusConflict,
		Message: MessageDuplicateName,
		Err:     cause,
	}
}

func invalidFee(message string) *apiErrors.APIError {
	return &apiErrors.APIError{
		Code:    apiErrors.ErrInvalidParam,
		Status:  http.StatusUnprocessableEntity,
		Message: message,
		Err:     ErrInvalidFee,
	}
}
