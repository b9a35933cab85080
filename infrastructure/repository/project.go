package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

const (
	projectsTable   = "projects p"
	projectsColumns = "p.id, p.name, p.client_name, p.currency, p.status, p.account_manager_id, " +
		"p.created_by, p.updated_by, p.created_at, p.updated_at"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, q postgres.Queryer, vis domain.Visibility, filter domain.ProjectFilter) ([]*domain.Project, int, error)
	HasAssignedAccount(ctx context.Context, q postgres.Queryer, projectID, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, q postgres.Queryer, project *domain.Project) error
	Update(ctx context.Context, q postgres.Queryer, project *domain.Project) error
}

type projectRepository struct{}

func NewProjectRepository() ProjectRepository {
	return &projectRepository{}
}

func (r *projectRepository) GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.Project, error) {
	return getOne[domain.Project](ctx, q, psql.
		Select(projectsColumns).
		From(projectsTable).
		Where(squirrel.Eq{"p.id": id}))
}

func (r *projectRepository) List(
	ctx context.Context,
	q postgres.Queryer,
	vis domain.Visibility,
	filter domain.ProjectFilter,
) ([]*domain.Project, int, error) {
	base := func(columns ...string) squirrel.SelectBuilder {
		b := psql.Select(columns...).From(projectsTable)

		// projetos não têm join com a conta, o filtro de buyer vira EXISTS
		switch vis.Scope {
		case domain.ScopeManagedProjects:
			b = b.Where(squirrel.Eq{"p.account_manager_id": vis.UserID})
		case domain.ScopeAssignedAccounts:
			b = b.Where("EXISTS (SELECT 1 FROM ad_accounts a WHERE a.project_id = p.id AND a.assigned_user_id = ?)", vis.UserID)
		}

		if filter.Status != nil {
			b = b.Where(squirrel.Eq{"p.status": *filter.Status})
		}
		if filter.Name != nil && *filter.Name != "" {
			b = b.Where(squirrel.ILike{"p.name": "%" + *filter.Name + "%"})
		}
		return b
	}

	projects, total, err := paginate[domain.Project](ctx, q, base, projectsColumns, "p.created_at DESC", filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	return projects, total, nil
}

func (r *projectRepository) HasAssignedAccount(ctx context.Context, q postgres.Queryer, projectID, userID uuid.UUID) (bool, error) {
	total, err := count(ctx, q, psql.
		Select("COUNT(*)").
		From("ad_accounts").
		Where(squirrel.Eq{"project_id": projectID, "assigned_user_id": userID}))
	if err != nil {
		return false, fmt.Errorf("count assigned accounts: %w", err)
	}
	return total > 0, nil
}

func (r *projectRepository) Create(ctx context.Context, q postgres.Queryer, project *domain.Project) error {
	_, err := exec(ctx, q, psql.
		Insert("projects").
		Columns("id", "name", "client_name", "currency", "status", "account_manager_id",
			"created_by", "updated_by", "created_at", "updated_at").
		Values(project.ID, project.Name, project.ClientName, project.Currency, project.Status, project.AccountManagerID,
			project.CreatedBy, project.UpdatedBy, project.CreatedAt, project.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *projectRepository) Update(ctx context.Context, q postgres.Queryer, project *domain.Project) error {
	_, err := exec(ctx, q, psql.
		Update("projects").
		SetMap(map[string]interface{}{
			"name":               project.Name,
			"client_name":        project.ClientName,
			"currency":           project.Currency,
			"status":             project.Status,
			"account_manager_id": project.AccountManagerID,
			"updated_by":         project.UpdatedBy,
			"updated_at":         project.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": project.ID}))
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}
