package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusPaused    ProjectStatus = "paused"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusPaused, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

type Project struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	Name             string        `json:"name" db:"name"`
	ClientName       string        `json:"client_name" db:"client_name"`
	Currency         string        `json:"currency" db:"currency"`
	Status           ProjectStatus `json:"status" db:"status"`
	AccountManagerID uuid.UUID     `json:"account_manager_id" db:"account_manager_id"`
	CreatedBy        *uuid.UUID    `json:"created_by" db:"created_by"`
	UpdatedBy        *uuid.UUID    `json:"updated_by" db:"updated_by"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

type CreateProjectRequest struct {
	Name             string    `json:"name" validate:"required,max=200"`
	ClientName       string    `json:"client_name" validate:"required,max=200"`
	Currency         string    `json:"currency" validate:"required,len=3,uppercase"`
	AccountManagerID uuid.UUID `json:"account_manager_id" validate:"required"`
}

type UpdateProjectRequest struct {
	Name             *string        `json:"name" validate:"omitempty,max=200"`
	ClientName       *string        `json:"client_name" validate:"omitempty,max=200"`
	Currency         *string        `json:"currency" validate:"omitempty,len=3,uppercase"`
	Status           *ProjectStatus `json:"status" validate:"omitempty,oneof=active paused completed archived"`
	AccountManagerID *uuid.UUID     `json:"account_manager_id"`
}

type ProjectFilter struct {
	Status *ProjectStatus
	Name   *string
	Page   Page
}

type ChannelFeeType string

const (
	ChannelFeePercent ChannelFeeType = "percent"
	ChannelFeeFixed   ChannelFeeType = "fixed"
)

func (t ChannelFeeType) IsValid() bool {
	return t == ChannelFeePercent || t == ChannelFeeFixed
}

type Channel struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Name            string         `json:"name" db:"name"`
	ServiceFeeType  ChannelFeeType `json:"service_fee_type" db:"service_fee_type"`
	ServiceFeeValue Money          `json:"service_fee_value" db:"service_fee_value"`
	IsActive        bool           `json:"is_active" db:"is_active"`
	CreatedBy       *uuid.UUID     `json:"created_by" db:"created_by"`
	UpdatedBy       *uuid.UUID     `json:"updated_by" db:"updated_by"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

type CreateChannelRequest struct {
	Name            string         `json:"name" validate:"required,max=100"`
	ServiceFeeType  ChannelFeeType `json:"service_fee_type" validate:"required,oneof=percent fixed"`
	ServiceFeeValue Money          `json:"service_fee_value"`
	IsActive        *bool          `json:"is_active"`
}

type UpdateChannelRequest struct {
	Name            *string         `json:"name" validate:"omitempty,max=100"`
	ServiceFeeType  *ChannelFeeType `json:"service_fee_type" validate:"omitempty,oneof=percent fixed"`
	ServiceFeeValue *Money          `json:"service_fee_value"`
	IsActive        *bool           `json:"is_active"`
}

type ChannelFilter struct {
	IsActive *bool
	Page     Page
}
