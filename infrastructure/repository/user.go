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
	usersTable   = "users"
	usersColumns = "id, email, name, role, is_active, password_hash, created_at, updated_at"
)

type UserRepository interface {
	GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, q postgres.Queryer, email string) (*domain.User, error)
	List(ctx context.Context, q postgres.Queryer, filter domain.UserFilter) ([]*domain.User, int, error)
	Create(ctx context.Context, q postgres.Queryer, user *domain.User) error
	SetActive(ctx context.Context, q postgres.Queryer, id uuid.UUID, active bool) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.User, error) {
	return getOne[domain.User](ctx, q, psql.
		Select(usersColumns).
		From(usersTable).
		Where(squirrel.Eq{"id": id}))
}

func (r *userRepository) GetByEmail(ctx context.Context, q postgres.Queryer, email string) (*domain.User, error) {
	return getOne[domain.User](ctx, q, psql.
		Select(usersColumns).
		From(usersTable).
		Where(squirrel.Eq{"email": email}))
}

func (r *userRepository) List(ctx context.Context, q postgres.Queryer, filter domain.UserFilter) ([]*domain.User, int, error) {
	base := func(columns ...string) squirrel.SelectBuilder {
		b := psql.Select(columns...).From(usersTable)
		if filter.Role != nil {
			b = b.Where(squirrel.Eq{"role": *filter.Role})
		}
		if filter.IsActive != nil {
			b = b.Where(squirrel.Eq{"is_active": *filter.IsActive})
		}
		return b
	}

	users, total, err := paginate[domain.User](ctx, q, base, usersColumns, "created_at DESC", filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) Create(ctx context.Context, q postgres.Queryer, user *domain.User) error {
	_, err := exec(ctx, q, psql.
		Insert(usersTable).
		Columns("id", "email", "name", "role", "is_active", "password_hash", "created_at", "updated_at").
		Values(user.ID, user.Email, user.Name, user.Role, user.IsActive, user.PasswordHash, user.CreatedAt, user.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) SetActive(ctx context.Context, q postgres.Queryer, id uuid.UUID, active bool) error {
	_, err := exec(ctx, q, psql.
		Update(usersTable).
		Set("is_active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
