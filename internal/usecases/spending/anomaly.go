package spending

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

var (
	anomalyThreshold = decimal.RequireFromString("0.30")
	hundred          = decimal.NewFromInt(100)
)

// CostPerLead é spend/leads com duas casas, ou zero sem leads
func CostPerLead(spend domain.Money, leads int) domain.Money {
	if leads <= 0 {
		return domain.NewMoney(decimal.Zero)
	}
	return domain.Money{Decimal: domain.DivRoundHalfUp(spend.Decimal, decimal.NewFromInt(int64(leads)), 2)}
}

// DetectAnomaly aplica as regras na ordem: leads zerados, sem relatório
// anterior, gasto anterior zerado e variação acima de 30%.
func DetectAnomaly(spend domain.Money, leads int, previous *domain.AdSpendDaily) (bool, *string) {
	if leads == 0 {
		return flag(domain.AnomalyLeadsCountZero)
	}

	if previous == nil {
		return false, nil
	}

	prev := previous.Spend.Abs()
	if prev.IsZero() {
		if spend.IsPositive() {
			return flag(domain.AnomalySpendPreviousZero)
		}
		return false, nil
	}

	delta := spend.Sub(previous.Spend.Decimal).Abs()

	// |C-P| > 0.30*|P| evita comparar um quociente já arredondado
	if !delta.GreaterThan(prev.Mul(anomalyThreshold)) {
		return false, nil
	}

	pct := domain.DivRoundHalfUp(delta.Mul(hundred), prev, 2)
	return flag(fmt.Sprintf(domain.AnomalySpendChangeFormat, pct.StringFixed(2)))
}

func flag(reason string) (bool, *string) {
	return true, &reason
}
