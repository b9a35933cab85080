package domain

import (
	"time"

	"github.com/google/uuid"
)

type LedgerType string

const (
	LedgerTypeIncome  LedgerType = "income"
	LedgerTypeExpense LedgerType = "expense"
	LedgerTypeFee     LedgerType = "fee"
	LedgerTypeRefund  LedgerType = "refund"
)

func (t LedgerType) IsValid() bool {
	switch t {
	case LedgerTypeIncome, LedgerTypeExpense, LedgerTypeFee, LedgerTypeRefund:
		return true
	}
	return false
}

type Ledger struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Type        LedgerType `json:"type" db:"type"`
	ProjectID   *uuid.UUID `json:"project_id" db:"project_id"`
	ChannelID   *uuid.UUID `json:"channel_id" db:"channel_id"`
	AdAccountID *uuid.UUID `json:"ad_account_id" db:"ad_account_id"`
	Amount      Money      `json:"amount" db:"amount"`
	Currency    string     `json:"currency" db:"currency"`
	OccurredAt  time.Time  `json:"occurred_at" db:"occurred_at"`
	Remark      *string    `json:"remark" db:"remark"`
	CreatedBy   *uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy   *uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// OccurredOn trunca occurred_at para o dia em UTC
func (l *Ledger) OccurredOn() Date {
	return NewDate(l.OccurredAt.UTC())
}

type CreateLedgerRequest struct {
	Type        LedgerType `json:"type" validate:"required,oneof=income expense fee refund"`
	ProjectID   *uuid.UUID `json:"project_id"`
	ChannelID   *uuid.UUID `json:"channel_id"`
	AdAccountID *uuid.UUID `json:"ad_account_id"`
	Amount      Money      `json:"amount"`
	Currency    string     `json:"currency" validate:"required,len=3,uppercase"`
	OccurredAt  time.Time  `json:"occurred_at" validate:"required"`
	Remark      *string    `json:"remark" validate:"omitempty,max=1000"`
}

type LedgerFilter struct {
	Type        *LedgerType
	AdAccountID *uuid.UUID
	From        *time.Time
	To          *time.Time
	Page        Page
}
