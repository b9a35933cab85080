package domain

import (
	"time"

	"github.com/google/uuid"
)

type TopupStatus string

const (
	TopupStatusPending  TopupStatus = "pending"
	TopupStatusApproved TopupStatus = "approved"
	TopupStatusPaid     TopupStatus = "paid"
	TopupStatusDone     TopupStatus = "done"
	TopupStatusRejected TopupStatus = "rejected"
)

// paid -> rejected é permitido (leitura inclusiva do fluxo)
var topupTransitions = map[TopupStatus][]TopupStatus{
	TopupStatusPending:  {TopupStatusApproved, TopupStatusRejected},
	TopupStatusApproved: {TopupStatusPaid, TopupStatusRejected},
	TopupStatusPaid:     {TopupStatusDone, TopupStatusRejected},
	TopupStatusDone:     {},
	TopupStatusRejected: {},
}

func (s TopupStatus) IsValid() bool {
	_, ok := topupTransitions[s]
	return ok
}

func (s TopupStatus) IsTerminal() bool {
	return len(topupTransitions[s]) == 0
}

func (s TopupStatus) CanTransitionTo(target TopupStatus) bool {
	for _, next := range topupTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type Topup struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	ProjectID        uuid.UUID   `json:"project_id" db:"project_id"`
	AdAccountID      uuid.UUID   `json:"ad_account_id" db:"ad_account_id"`
	ChannelID        uuid.UUID   `json:"channel_id" db:"channel_id"`
	RequestedBy      uuid.UUID   `json:"requested_by" db:"requested_by"`
	Amount           Money       `json:"amount" db:"amount"`
	ServiceFeeAmount *Money      `json:"service_fee_amount" db:"service_fee_amount"`
	Status           TopupStatus `json:"status" db:"status"`
	Remark           *string     `json:"remark" db:"remark"`
	CreatedBy        *uuid.UUID  `json:"created_by" db:"created_by"`
	UpdatedBy        *uuid.UUID  `json:"updated_by" db:"updated_by"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`

	Ownership
}

type CreateTopupRequest struct {
	ProjectID   uuid.UUID `json:"project_id" validate:"required"`
	AdAccountID uuid.UUID `json:"ad_account_id" validate:"required"`
	ChannelID   uuid.UUID `json:"channel_id" validate:"required"`
	Amount      Money     `json:"amount"`
	Remark      *string   `json:"remark" validate:"omitempty,max=1000"`
}

type TopupTransitionRequest struct {
	Remark *string `json:"remark" validate:"omitempty,max=1000"`
}

type TopupFilter struct {
	Status      *TopupStatus
	AdAccountID *uuid.UUID
	ProjectID   *uuid.UUID
	Page        Page
}
