package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authorizing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

const (
	ActionCreate = "create_project"
	ActionUpdate = "update_project"
)

// papéis que podem ser account_manager_id de um projeto
var managerRoles = map[domain.Role]bool{
	domain.RoleAdmin:          true,
	domain.RoleAccountManager: true,
	domain.RoleManager:        true,
}

type ProjectService interface {
	CreateProject(ctx context.Context, caller *domain.Caller, req domain.CreateProjectRequest) (*domain.Project, error)
	UpdateProject(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.UpdateProjectRequest) (*domain.Project, error)
	GetProject(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.Project, error)
	ListProjects(ctx context.Context, caller *domain.Caller, filter domain.ProjectFilter) ([]*domain.Project, int, error)
}

type Service struct {
	projectRepository repository.ProjectRepository
	userRepository    repository.UserRepository
	db                postgres.Transactor
	auditor           auditing.Auditor
	now               func() time.Time
}

func NewService(
	projectRepository repository.ProjectRepository,
	userRepository repository.UserRepository,
	db postgres.Transactor,
	auditor auditing.Auditor,
) ProjectService {
	return &Service{
		projectRepository: projectRepository,
		userRepository:    userRepository,
		db:                db,
		auditor:           auditor,
		now:               time.Now,
	}
}

func (s *Service) CreateProject(ctx context.Context, caller *domain.Caller, req domain.CreateProjectRequest) (*domain.Project, error) {
	var created *domain.Project

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		if err := s.checkManager(ctx, q, req.AccountManagerID); err != nil {
			return err
		}

		now := s.now().UTC()
		project := &domain.Project{
			ID:               uuid.New(),
			Name:             strings.TrimSpace(req.Name),
			ClientName:       strings.TrimSpace(req.ClientName),
			Currency:         req.Currency,
			Status:           domain.ProjectStatusActive,
			AccountManagerID: req.AccountManagerID,
			CreatedBy:        &caller.ID,
			UpdatedBy:        &caller.ID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := s.projectRepository.Create(ctx, q, project); err != nil {
			if postgres.IsUniqueViolation(err) {
				return duplicateName(err)
			}
			return err
		}

		created = project
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionCreate,
			Table:    domain.TableProjects,
			TargetID: project.ID,
			After:    project,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"project_id": created.ID,
		"user_id":    caller.ID,
	}).Info("Projeto criado")

	return created, nil
}

// UpdateProject: o gerente do projeto edita os dados, mas só admin troca o gerente.
func (s *Service) UpdateProject(ctx context.Context, caller *domain.Caller, id uuid.UUID, req domain.UpdateProjectRequest) (*domain.Project, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, apiErrors.Wrap(ErrInvalidStatus, apiErrors.ErrInvalidParam, MessageInvalidStatus)
	}

	var updated *domain.Project

	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		project, err := s.projectRepository.GetByID(ctx, q, id)
		if err != nil {
			return err
		}
		if project == nil {
			return apiErrors.Wrap(ErrProjectNotFound, apiErrors.ErrNotFound, MessageProjectNotFound)
		}
		if caller.Role != domain.RoleAdmin && project.AccountManagerID != caller.ID {
			return apiErrors.PermissionDenied()
		}

		before := *project

		if req.Name != nil {
			project.Name = strings.TrimSpace(*req.Name)
		}
		if req.ClientName != nil {
			project.ClientName = strings.TrimSpace(*req.ClientName)
		}
		if req.Currency != nil {
			project.Currency = *req.Currency
		}
		if req.Status != nil {
			project.Status = *req.Status
		}
		if req.AccountManagerID != nil && *req.AccountManagerID != project.AccountManagerID {
			if caller.Role != domain.RoleAdmin {
				return apiErrors.PermissionDenied()
			}
			if err := s.checkManager(ctx, q, *req.AccountManagerID); err != nil {
				return err
			}
			project.AccountManagerID = *req.AccountManagerID
		}

		project.UpdatedBy = &caller.ID
		project.UpdatedAt = s.now().UTC()

		if err := s.projectRepository.Update(ctx, q, project); err != nil {
			if postgres.IsUniqueViolation(err) {
				return duplicateName(err)
			}
			return err
		}

		updated = project
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   ActionUpdate,
			Table:    domain.TableProjects,
			TargetID: project.ID,
			Before:   before,
			After:    project,
		})
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) GetProject(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.Project, error) {
	q := s.db.Reader()

	project, err := s.projectRepository.GetByID(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apiErrors.Wrap(ErrProjectNotFound, apiErrors.ErrNotFound, MessageProjectNotFound)
	}

	visible, err := authorizing.CanSeeProject(caller, project, func() (bool, error) {
		return s.projectRepository.HasAssignedAccount(ctx, q, project.ID, caller.ID)
	})
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, apiErrors.PermissionDenied()
	}

	return project, nil
}

func (s *Service) ListProjects(ctx context.Context, caller *domain.Caller, filter domain.ProjectFilter) ([]*domain.Project, int, error) {
	return s.projectRepository.List(ctx, s.db.Reader(), authorizing.VisibilityFor(caller), filter)
}

func (s *Service) checkManager(ctx context.Context, q postgres.Queryer, userID uuid.UUID) error {
	user, err := s.userRepository.GetByID(ctx, q, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return apiErrors.Wrap(ErrManagerNotFound, apiErrors.ErrInvalidParam, MessageManagerNotFound)
	}
	if !managerRoles[user.Role] {
		return apiErrors.Wrap(ErrManagerNotAllowed, apiErrors.ErrInvalidParam, MessageManagerNotAllowed)
	}
	return nil
}
