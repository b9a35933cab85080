package domain

import (
	"time"

	"github.com/google/uuid"
)

type AdAccountStatus string

const (
	AdAccountStatusNew       AdAccountStatus = "new"
	AdAccountStatusTesting   AdAccountStatus = "testing"
	AdAccountStatusActive    AdAccountStatus = "active"
	AdAccountStatusSuspended AdAccountStatus = "suspended"
	AdAccountStatusDead      AdAccountStatus = "dead"
	AdAccountStatusArchived  AdAccountStatus = "archived"
)

var adAccountTransitions = map[AdAccountStatus][]AdAccountStatus{
	AdAccountStatusNew:       {AdAccountStatusTesting},
	AdAccountStatusTesting:   {AdAccountStatusActive},
	AdAccountStatusActive:    {AdAccountStatusSuspended, AdAccountStatusDead},
	AdAccountStatusSuspended: {AdAccountStatusDead, AdAccountStatusActive},
	AdAccountStatusDead:      {AdAccountStatusArchived},
	AdAccountStatusArchived:  {},
}

func (s AdAccountStatus) IsValid() bool {
	_, ok := adAccountTransitions[s]
	return ok
}

func (s AdAccountStatus) CanTransitionTo(target AdAccountStatus) bool {
	for _, next := range adAccountTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type AdAccount struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	ProjectID      uuid.UUID       `json:"project_id" db:"project_id"`
	ChannelID      uuid.UUID       `json:"channel_id" db:"channel_id"`
	AssignedUserID *uuid.UUID      `json:"assigned_user_id" db:"assigned_user_id"`
	Status         AdAccountStatus `json:"status" db:"status"`
	DeadReason     *string         `json:"dead_reason" db:"dead_reason"`
	CreatedBy      *uuid.UUID      `json:"created_by" db:"created_by"`
	UpdatedBy      *uuid.UUID      `json:"updated_by" db:"updated_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	// vem do join com projects
	ProjectAccountManagerID uuid.UUID `json:"-" db:"project_account_manager_id"`
}

func (a *AdAccount) Ownership() Ownership {
	return Ownership{
		AssignedUserID:   a.AssignedUserID,
		AccountManagerID: a.ProjectAccountManagerID,
	}
}

type CreateAdAccountRequest struct {
	Name           string     `json:"name" validate:"required,max=200"`
	ProjectID      uuid.UUID  `json:"project_id" validate:"required"`
	ChannelID      uuid.UUID  `json:"channel_id" validate:"required"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
}

type UpdateAdAccountRequest struct {
	Name           *string    `json:"name" validate:"omitempty,max=200"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
}

type TransitionAdAccountRequest struct {
	Status     AdAccountStatus `json:"status" validate:"required"`
	DeadReason *string         `json:"dead_reason" validate:"omitempty,max=500"`
}

type AdAccountFilter struct {
	Status    *AdAccountStatus
	ProjectID *uuid.UUID
	ChannelID *uuid.UUID
	Page      Page
}
