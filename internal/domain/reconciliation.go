package domain

import (
	"time"

	"github.com/google/uuid"
)

type MatchType string

const (
	MatchTypeAuto   MatchType = "auto"
	MatchTypeManual MatchType = "manual"
)

func (t MatchType) IsValid() bool {
	return t == MatchTypeAuto || t == MatchTypeManual
}

type ReconciliationStatus string

const (
	ReconciliationStatusMatched      ReconciliationStatus = "matched"
	ReconciliationStatusManualReview ReconciliationStatus = "manual_review"
	ReconciliationStatusResolved     ReconciliationStatus = "resolved"
	ReconciliationStatusException    ReconciliationStatus = "exception"
)

func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case ReconciliationStatusMatched, ReconciliationStatusManualReview,
		ReconciliationStatusResolved, ReconciliationStatusException:
		return true
	}
	return false
}

type ReviewAction string

const (
	ReviewActionApprove     ReviewAction = "approve"
	ReviewActionReject      ReviewAction = "reject"
	ReviewActionInvestigate ReviewAction = "investigate"
)

// reviewTransitions mapeia (ação, status atual) para o novo status
var reviewTransitions = map[ReviewAction]map[ReconciliationStatus]ReconciliationStatus{
	ReviewActionApprove: {
		ReconciliationStatusManualReview: ReconciliationStatusMatched,
		ReconciliationStatusException:    ReconciliationStatusResolved,
	},
	ReviewActionReject: {
		ReconciliationStatusMatched:      ReconciliationStatusException,
		ReconciliationStatusManualReview: ReconciliationStatusException,
	},
	ReviewActionInvestigate: {
		ReconciliationStatusMatched:   ReconciliationStatusManualReview,
		ReconciliationStatusException: ReconciliationStatusManualReview,
	},
}

func (a ReviewAction) IsValid() bool {
	_, ok := reviewTransitions[a]
	return ok
}

// NextStatus devolve o status resultante da revisão, ou false se a ação não se aplica
func (a ReviewAction) NextStatus(current ReconciliationStatus) (ReconciliationStatus, bool) {
	next, ok := reviewTransitions[a][current]
	return next, ok
}

type Reconciliation struct {
	ID           uuid.UUID            `json:"id" db:"id"`
	AdAccountID  uuid.UUID            `json:"ad_account_id" db:"ad_account_id"`
	DailySpendID uuid.UUID            `json:"daily_spend_id" db:"daily_spend_id"`
	FinanceTxnID uuid.UUID            `json:"finance_txn_id" db:"finance_txn_id"`
	MatchType    MatchType            `json:"match_type" db:"match_type"`
	Status       ReconciliationStatus `json:"status" db:"status"`
	AmountDiff   Money                `json:"amount_diff" db:"amount_diff"`
	DateDiff     int                  `json:"date_diff" db:"date_diff"`
	ReviewedBy   *uuid.UUID           `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt   *time.Time           `json:"reviewed_at" db:"reviewed_at"`
	ReviewNotes  *string              `json:"review_notes" db:"review_notes"`
	CreatedBy    *uuid.UUID           `json:"created_by" db:"created_by"`
	UpdatedBy    *uuid.UUID           `json:"updated_by" db:"updated_by"`
	CreatedAt    time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" db:"updated_at"`

	Ownership
}

type CreateReconciliationRequest struct {
	AdAccountID  uuid.UUID            `json:"ad_account_id" validate:"required"`
	DailySpendID uuid.UUID            `json:"daily_spend_id" validate:"required"`
	FinanceTxnID uuid.UUID            `json:"finance_txn_id" validate:"required"`
	AmountDiff   Money                `json:"amount_diff"`
	DateDiff     int                  `json:"date_diff" validate:"gte=0"`
	Status       ReconciliationStatus `json:"status" validate:"omitempty,oneof=manual_review matched"`
}

type ReviewReconciliationRequest struct {
	Action ReviewAction `json:"action" validate:"required,oneof=approve reject investigate"`
	Notes  *string      `json:"notes" validate:"omitempty,max=2000"`
}

type ReconciliationFilter struct {
	Status      *ReconciliationStatus
	MatchType   *MatchType
	AdAccountID *uuid.UUID
	Page        Page
}

type ReconciliationRunResult struct {
	Matched      int `json:"matched"`
	ManualReview int `json:"manual_review"`
	Total        int `json:"total"`
}
