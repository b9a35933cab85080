package project

import (
	"errors"
	"net/http"

	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrDuplicateName     = errors.New("project name already exists")
	ErrManagerNotFound   = errors.New("account manager not found")
	ErrManagerNotAllowed = errors.New("user cannot manage projects")
	ErrInvalidStatus     = errors.New("unknown project status")
)

const (
	MessageProjectNotFound   = "项目不存在"
	MessageDuplicateName     = "项目名称已存在"
	MessageManagerNotFound   = "客户经理不存在或已停用"
	MessageManagerNotAllowed = "该用户不能担任客户经理"
	MessageInvalidStatus     = "无效的项目状态"
)

func duplicateName(cause error) *apiErrors.APIError {
	return &apiErrors.APIError{
		Code:    apiErrors.ErrInvalidStatus,
		Status:  http.StatusConflict,
		Message: MessageDuplicateName,
		Err:     cause,
	}
}
