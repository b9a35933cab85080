package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"golang.org/x/crypto/bcrypt"
)

const actionSeedAdmin = "seed_admin"

// seedAdminCmd cria o primeiro admin; sem ele ninguém consegue chamar POST /users
func seedAdminCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Cria um usuário admin se o e-mail ainda não existir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return fmt.Errorf("--password precisa de pelo menos 8 caracteres")
			}

			ctx := cmd.Context()
			env, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			created, err := seedAdmin(ctx, env.conn, repository.NewUserRepository(),
				auditing.NewService(repository.NewAuditLogRepository(), env.conn), email, name, password)
			if err != nil {
				return err
			}

			if created {
				logrus.WithField("email", email).Info("Usuário admin criado")
			} else {
				logrus.WithField("email", email).Info("Usuário já existe, nada a fazer")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "e-mail do admin")
	cmd.Flags().StringVar(&name, "name", "Administrador", "nome exibido")
	cmd.Flags().StringVar(&password, "password", "", "senha inicial")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func seedAdmin(
	ctx context.Context,
	db postgres.Transactor,
	users repository.UserRepository,
	auditor auditing.Auditor,
	email, name, password string,
) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("erro ao gerar hash da senha: %w", err)
	}

	created := false
	err = db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		existing, err := users.GetByEmail(ctx, q, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		now := time.Now().UTC()
		user := &domain.User{
			ID:           uuid.New(),
			Email:        email,
			Name:         name,
			Role:         domain.RoleAdmin,
			IsActive:     true,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, q, user); err != nil {
			return err
		}

		created = true
		return auditor.Record(ctx, q, auditing.Entry{
			Caller:   domain.SystemCaller(),
			Action:   actionSeedAdmin,
			Table:    domain.TableUsers,
			TargetID: user.ID,
			After:    user,
		})
	})

	return created, err
}
