package authorizing

import (
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

// VisibilityFor traduz o papel do usuário no predicado aplicado pelos repositórios
func VisibilityFor(caller *domain.Caller) domain.Visibility {
	switch caller.Role {
	case domain.RoleAccountManager:
		return domain.Visibility{Scope: domain.ScopeManagedProjects, UserID: caller.ID}
	case domain.RoleMediaBuyer, domain.RoleTrader:
		return domain.Visibility{Scope: domain.ScopeAssignedAccounts, UserID: caller.ID}
	default:
		return domain.Visibility{Scope: domain.ScopeAll}
	}
}

// CanSee avalia a regra de visibilidade sobre uma linha já carregada
func CanSee(caller *domain.Caller, owner domain.Ownership) bool {
	vis := VisibilityFor(caller)

	switch vis.Scope {
	case domain.ScopeManagedProjects:
		return owner.AccountManagerID == vis.UserID
	case domain.ScopeAssignedAccounts:
		return owner.AssignedUserID != nil && *owner.AssignedUserID == vis.UserID
	default:
		return true
	}
}

func CanSeeAccount(caller *domain.Caller, account *domain.AdAccount) bool {
	return CanSee(caller, account.Ownership())
}

// CanSeeProject recebe assigned = o usuário tem ao menos uma conta atribuída no projeto.
// Só é consultado para media_buyer e trader.
func CanSeeProject(caller *domain.Caller, project *domain.Project, assigned func() (bool, error)) (bool, error) {
	vis := VisibilityFor(caller)

	switch vis.Scope {
	case domain.ScopeManagedProjects:
		return project.AccountManagerID == vis.UserID, nil
	case domain.ScopeAssignedAccounts:
		return assigned()
	default:
		return true, nil
	}
}
