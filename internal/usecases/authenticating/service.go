package authenticating

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/infrastructure/repository"
	"github.com/vfg2006/adops-finance-api/internal/config"
	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/auditing"
	"github.com/vfg2006/adops-finance-api/internal/usecases/authorizing"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

const (
	bearerType = "Bearer"
	jtiLength  = 21
)

// Resolver transforma o token de acesso no usuário autenticado
type Resolver interface {
	Resolve(ctx context.Context, token string) (*domain.Caller, error)
}

type Authenticator interface {
	Resolver
	Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, caller *domain.Caller, refreshToken string) error
	Me(ctx context.Context, caller *domain.Caller) (*domain.Me, error)
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int, error)
	CreateUser(ctx context.Context, caller *domain.Caller, req domain.CreateUserRequest) (*domain.User, error)
	DeactivateUser(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.User, error)
}

type Service struct {
	userRepo    repository.UserRepository
	db          postgres.Transactor
	auditor     auditing.Auditor
	revocations RevocationStore
	cfg         config.Auth
	now         func() time.Time
}

func NewService(
	userRepo repository.UserRepository,
	db postgres.Transactor,
	auditor auditing.Auditor,
	revocations RevocationStore,
	cfg config.Auth,
) Authenticator {
	return &Service{
		userRepo:    userRepo,
		db:          db,
		auditor:     auditor,
		revocations: revocations,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *Service) Resolve(ctx context.Context, token string) (*domain.Caller, error) {
	if token == "" {
		return nil, missingToken()
	}

	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	if claims.Type != domain.TokenTypeAccess {
		return nil, invalidToken(nil)
	}

	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}

	user, err := s.loadActiveUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	return &domain.Caller{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Role:           user.Role,
		TokenID:        claims.ID,
		TokenExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenPair, error) {
	email := handleEmail(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, s.db.Reader(), email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logrus.WithField("user_id", user.ID).Warn("Tentativa de login com senha incorreta")
		return nil, invalidCredentials()
	}

	if !user.IsActive {
		return nil, userDisabled()
	}

	return s.issuePair(user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Type != domain.TokenTypeRefresh {
		return nil, invalidToken(nil)
	}

	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}

	user, err := s.loadActiveUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	// o refresh antigo não pode ser reutilizado
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now())); err != nil {
		return nil, err
	}

	return s.issuePair(user)
}

func (s *Service) Logout(ctx context.Context, caller *domain.Caller, refreshToken string) error {
	if err := s.revocations.Revoke(ctx, caller.TokenID, caller.TokenExpiresAt.Sub(s.now())); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}

	claims, err := s.parse(refreshToken)
	if err != nil {
		return err
	}

	if claims.Type != domain.TokenTypeRefresh || claims.Subject != caller.ID.String() {
		return invalidToken(nil)
	}

	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now()))
}

func (s *Service) Me(ctx context.Context, caller *domain.Caller) (*domain.Me, error) {
	return &domain.Me{
		ID:          caller.ID,
		Email:       caller.Email,
		Name:        caller.Name,
		Role:        caller.Role,
		Permissions: authorizing.PermissionsFor(caller.Role),
	}, nil
}

func (s *Service) ListUsers(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int, error) {
	return s.userRepo.List(ctx, s.db.Reader(), filter)
}

func (s *Service) CreateUser(ctx context.Context, caller *domain.Caller, req domain.CreateUserRequest) (*domain.User, error) {
	if !req.Role.IsValid() {
		return nil, apiErrors.ValidationFailed(fmt.Sprintf("无效的角色: %s", req.Role))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        handleEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		IsActive:     true,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		existing, err := s.userRepo.GetByEmail(ctx, q, user.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return userAlreadyExists()
		}

		if err := s.userRepo.Create(ctx, q, user); err != nil {
			if postgres.IsUniqueViolation(err) {
				return userAlreadyExists()
			}
			return err
		}

		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   "create_user",
			Table:    domain.TableUsers,
			TargetID: user.ID,
			After:    user,
		})
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) DeactivateUser(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.User, error) {
	if caller.ID == id {
		return nil, apiErrors.Wrap(ErrSelfDeactivation, apiErrors.ErrInvalidParam, MessageSelfDeactivation)
	}

	var user *domain.User
	err := s.db.RunInTransaction(ctx, func(q postgres.Queryer) error {
		current, err := s.userRepo.GetByID(ctx, q, id)
		if err != nil {
			return err
		}
		if current == nil {
			return apiErrors.Wrap(ErrUserNotFound, apiErrors.ErrNotFound, MessageUserNotFound)
		}

		before := *current
		current.IsActive = false
		current.UpdatedAt = s.now().UTC()

		if err := s.userRepo.SetActive(ctx, q, id, false); err != nil {
			return err
		}

		user = current
		return s.auditor.Record(ctx, q, auditing.Entry{
			Caller:   caller,
			Action:   "deactivate_user",
			Table:    domain.TableUsers,
			TargetID: id,
			Before:   before,
			After:    current,
		})
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// parse valida assinatura, algoritmo e exp. O tipo do token fica a cargo de quem chama.
func (s *Service) parse(raw string) (*domain.Claims, error) {
	claims := &domain.Claims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, expiredToken()
		}
		return nil, invalidToken(err)
	}

	// exp igual ao instante atual também é expirado
	if !claims.ExpiresAt.After(s.now()) {
		return nil, expiredToken()
	}

	if claims.ID == "" || claims.Subject == "" {
		return nil, invalidToken(nil)
	}

	return claims, nil
}

func (s *Service) checkRevoked(ctx context.Context, jti string) error {
	revoked, err := s.revocations.IsRevoked(ctx, jti)
	if err != nil {
		return err
	}
	if revoked {
		return revokedToken()
	}
	return nil
}

func (s *Service) loadActiveUser(ctx context.Context, subject string) (*domain.User, error) {
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, invalidToken(err)
	}

	user, err := s.userRepo.GetByID(ctx, s.db.Reader(), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalidToken(ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, userDisabled()
	}

	return user, nil
}

func (s *Service) issuePair(user *domain.User) (*domain.TokenPair, error) {
	now := s.now()

	access, err := s.sign(user, domain.TokenTypeAccess, now, s.cfg.AccessTokenTTL())
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(user, domain.TokenTypeRefresh, now, s.cfg.RefreshTokenTTL())
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    bearerType,
		ExpiresIn:    int64(s.cfg.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *Service) sign(user *domain.User, tokenType domain.TokenType, now time.Time, ttl time.Duration) (string, error) {
	jti, err := gonanoid.New(jtiLength)
	if err != nil {
		return "", err
	}

	claims := domain.Claims{
		Role:  user.Role,
		Email: user.Email,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userAlreadyExists() *apiErrors.APIError {
	return &apiErrors.APIError{
		Code:    apiErrors.ErrInvalidStatus,
		Status:  http.StatusConflict,
		Message: MessageUserAlreadyExists,
		Err:     ErrUserAlreadyExists,
	}
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}
