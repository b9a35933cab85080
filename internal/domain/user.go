package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleFinance        Role = "finance"
	RoleDataOperator   Role = "data_operator"
	RoleAccountManager Role = "account_manager"
	RoleMediaBuyer     Role = "media_buyer"
	RoleTrader         Role = "trader"
	RoleManager        Role = "manager"
)

// AllRoles lista todos os papéis conhecidos, na ordem usada em respostas e testes
var AllRoles = []Role{
	RoleAdmin,
	RoleFinance,
	RoleDataOperator,
	RoleAccountManager,
	RoleMediaBuyer,
	RoleTrader,
	RoleManager,
}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     Role   `json:"role" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserFilter struct {
	Role     *Role
	IsActive *bool
	Page     Page
}

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims carrega o payload do JWT. Role e Email são apenas dicas, o papel
// efetivo sempre vem do banco.
type Claims struct {
	Role  Role      `json:"role,omitempty"`
	Email string    `json:"email,omitempty"`
	Type  TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Caller é o usuário autenticado resolvido a partir do token de acesso
type Caller struct {
	ID             uuid.UUID
	Email          string
	Name           string
	Role           Role
	IP             string
	TokenID        string
	TokenExpiresAt time.Time
}

// SystemCaller identifica execuções agendadas, sem usuário associado
func SystemCaller() *Caller {
	return &Caller{
		ID:   uuid.Nil,
		Name: "scheduler",
		Role: RoleAdmin,
		IP:   "scheduler",
	}
}

func (c *Caller) IsSystem() bool {
	return c.ID == uuid.Nil
}

type Me struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	Permissions []string  `json:"permissions"`
}
