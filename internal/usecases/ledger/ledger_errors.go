package ledger

import (
	"errors"
)

var (
	ErrLedgerNotFound  = errors.New("ledger not found")
	ErrAccountNotFound = errors.New("ad account not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrChannelNotFound = errors.New("channel not found")
	ErrMismatch        = errors.New("project or channel differs from the ad account")
	ErrInvalidAmount   = errors.New("invalid ledger amount")
	ErrInvalidType     = errors.New("unknown ledger type")
)

const (
	MessageLedgerNotFound  = "财务流水不存在"
	MessageAccountNotFound = "广告账户不存在"
	MessageProjectNotFound = "项目不存在"
	MessageChannelNotFound = "渠道不存在"
	MessageMismatch        = "项目或渠道与广告账户不一致"
	MessageInvalidAmount   = "金额不能为负数且最多两位小数"
	MessageInvalidType     = "无效的流水类型"
)
