package domain

import "github.com/google/uuid"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Page struct {
	Page     int
	PageSize int
}

func NewPage(page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Page{Page: page, PageSize: pageSize}
}

func (p Page) Limit() uint64 {
	return uint64(p.PageSize)
}

func (p Page) Offset() uint64 {
	return uint64((p.Page - 1) * p.PageSize)
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(p Page, total int) Pagination {
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

type VisibilityScope int

const (
	// ScopeAll vê todas as linhas
	ScopeAll VisibilityScope = iota
	// ScopeManagedProjects vê linhas de projetos onde account_manager_id = usuário
	ScopeManagedProjects
	// ScopeAssignedAccounts vê linhas de contas onde assigned_user_id = usuário
	ScopeAssignedAccounts
)

type Visibility struct {
	Scope  VisibilityScope
	UserID uuid.UUID
}

// Ownership reúne as colunas usadas para decidir visibilidade de uma linha já carregada.
type Ownership struct {
	AssignedUserID   *uuid.UUID `json:"-" db:"owner_assigned_user_id"`
	AccountManagerID uuid.UUID  `json:"-" db:"owner_account_manager_id"`
}
