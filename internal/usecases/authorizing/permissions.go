package authorizing

import (
	"sort"

	"github.com/vfg2006/adops-finance-api/internal/domain"
)

// Permissões conhecidas. PermAll só é concedida ao admin.
const (
	PermAll = "*"

	PermFinanceRead    = "finance:read"
	PermFinanceCreate  = "finance:create"
	PermFinanceUpdate  = "finance:update"
	PermTopupApprove   = "topup:approve"
	PermTopupConfirm   = "topup:confirm"
	PermTopupRequest   = "topup:request"
	PermReconciliation = "reconciliation:manage"
	PermProjectRead    = "project:read"
	PermAccountCreate  = "account:create"
	PermAccountRead    = "account:read"
	PermAccountUpdate  = "account:update"
	PermChannelRead    = "channel:read"
	PermReportSubmit   = "report:submit"
	PermReportReview   = "report:review"
	PermSpendSubmit    = "spend:submit"
)

var mediaBuyerPermissions = []string{
	PermAccountRead,
	PermReportSubmit,
	PermTopupRequest,
	PermSpendSubmit,
}

var rolePermissions = map[domain.Role][]string{
	domain.RoleAdmin: {PermAll},
	domain.RoleFinance: {
		PermFinanceRead,
		PermFinanceCreate,
		PermFinanceUpdate,
		PermTopupApprove,
		PermTopupConfirm,
		PermReconciliation,
	},
	domain.RoleDataOperator: {
		PermProjectRead,
		PermAccountRead,
		PermReportSubmit,
		PermReportReview,
	},
	domain.RoleAccountManager: {
		PermAccountCreate,
		PermAccountRead,
		PermAccountUpdate,
		PermChannelRead,
		PermTopupRequest,
	},
	domain.RoleMediaBuyer: mediaBuyerPermissions,
	// trader divide a visibilidade do media_buyer, não as escritas
	domain.RoleTrader:     {PermAccountRead},
	domain.RoleManager: {
		PermProjectRead,
		PermAccountRead,
		PermChannelRead,
		PermTopupApprove,
	},
}

// PermissionsFor devolve uma cópia ordenada das permissões do papel
func PermissionsFor(role domain.Role) []string {
	perms := append([]string{}, rolePermissions[role]...)
	sort.Strings(perms)
	return perms
}

func HasPermission(role domain.Role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == PermAll || p == permission {
			return true
		}
	}
	return false
}
