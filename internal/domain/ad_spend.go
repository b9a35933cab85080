package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	AnomalyLeadsCountZero    = "LEADS_COUNT_ZERO"
	AnomalySpendPreviousZero = "SPEND_PREVIOUS_ZERO"
	AnomalySpendChangeFormat = "SPEND_CHANGE_%s%%"
)

type AdSpendDaily struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	AdAccountID   uuid.UUID  `json:"ad_account_id" db:"ad_account_id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	Date          Date       `json:"date" db:"date"`
	Spend         Money      `json:"spend" db:"spend"`
	LeadsCount    int        `json:"leads_count" db:"leads_count"`
	CostPerLead   Money      `json:"cost_per_lead" db:"cost_per_lead"`
	IsAnomaly     bool       `json:"is_anomaly" db:"is_anomaly"`
	AnomalyReason *string    `json:"anomaly_reason" db:"anomaly_reason"`
	Note          *string    `json:"note" db:"note"`
	CreatedBy     *uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy     *uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	Ownership
}

type SubmitReportRequest struct {
	AdAccountID uuid.UUID `json:"ad_account_id" validate:"required"`
	Date        Date      `json:"date"`
	Spend       Money     `json:"spend"`
	LeadsCount  int       `json:"leads_count" validate:"gte=0,lte=1000000"`
	Note        *string   `json:"note" validate:"omitempty,max=1000"`
}

type AdSpendFilter struct {
	AdAccountID *uuid.UUID
	DateFrom    *Date
	DateTo      *Date
	IsAnomaly   *bool
	Page        Page
}
