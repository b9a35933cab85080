package domain

import (
	"time"

	"github.com/google/uuid"
)

// nomes de tabela usados como target_table no audit log
const (
	TableUsers           = "users"
	TableProjects        = "projects"
	TableChannels        = "channels"
	TableAdAccounts      = "ad_accounts"
	TableAdSpendDaily    = "ad_spend_daily"
	TableLedgers         = "ledgers"
	TableTopups          = "topups"
	TableReconciliations = "reconciliations"
)

type AuditLog struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ActorID     *uuid.UUID `json:"actor_id" db:"actor_id"`
	Action      string     `json:"action" db:"action"`
	TargetTable string     `json:"target_table" db:"target_table"`
	TargetID    uuid.UUID  `json:"target_id" db:"target_id"`
	BeforeData  JSONB      `json:"before_data" db:"before_data"`
	AfterData   JSONB      `json:"after_data" db:"after_data"`
	IP          string     `json:"ip" db:"ip"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type AuditLogFilter struct {
	TargetTable *string
	TargetID    *uuid.UUID
	ActorID     *uuid.UUID
	Action      *string
	Page        Page
}
