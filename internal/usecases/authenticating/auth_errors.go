package authenticating

import (
	"errors"

	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
)

// Tipos de erros de autenticação
var (
	ErrMissingToken       = errors.New("token ausente")
	ErrInvalidToken       = errors.New("token inválido")
	ErrExpiredToken       = errors.New("token expirado")
	ErrRevokedToken       = errors.New("token revogado")
	ErrUserDisabled       = errors.New("usuário desativado")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrUserAlreadyExists  = errors.New("usuário já existe")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrSelfDeactivation   = errors.New("usuário não pode desativar a si mesmo")
)

// Mensagens exibidas ao cliente
const (
	MessageMissingToken       = "缺少认证令牌"
	MessageInvalidToken       = "认证令牌无效"
	MessageExpiredToken       = "认证令牌已过期"
	MessageRevokedToken       = "认证令牌已被撤销"
	MessageUserDisabled       = "用户已被停用"
	MessageInvalidCredentials = "邮箱或密码错误"
	MessageUserAlreadyExists  = "该邮箱已被注册"
	MessageUserNotFound       = "用户不存在"
	MessageSelfDeactivation   = "不能停用当前登录用户"
)

func missingToken() *apiErrors.APIError {
	return apiErrors.Wrap(ErrMissingToken, apiErrors.ErrAuthMissingToken, MessageMissingToken)
}

func invalidToken(cause error) *apiErrors.APIError {
	if cause == nil {
		cause = ErrInvalidToken
	}
	return apiErrors.Wrap(cause, apiErrors.ErrAuthInvalidToken, MessageInvalidToken)
}

func expiredToken() *apiErrors.APIError {
	return apiErrors.Wrap(ErrExpiredToken, apiErrors.ErrAuthExpired, MessageExpiredToken)
}

func revokedToken() *apiErrors.APIError {
	return apiErrors.Wrap(ErrRevokedToken, apiErrors.ErrAuthTokenRevoked, MessageRevokedToken)
}

func userDisabled() *apiErrors.APIError {
	return apiErrors.Wrap(ErrUserDisabled, apiErrors.ErrAuthInactiveUser, MessageUserDisabled)
}

func invalidCredentials() *apiErrors.APIError {
	return apiErrors.Wrap(ErrInvalidCredentials, apiErrors.ErrAuthInvalidCredentials, MessageInvalidCredentials)
}

// IsCredentialsError verifica se o erro está relacionado a credenciais inválidas
func IsCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrUserDisabled)
}

// IsTokenError verifica se o erro veio da validação do token
func IsTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrRevokedToken)
}
