package reconciling

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

const (
	candidateWindowDays = 3
	autoMatchWindowDays = 1
)

var (
	candidateTolerancePct = decimal.RequireFromString("0.05")
	candidateToleranceMin = decimal.RequireFromString("1.00")
	autoMatchTolerancePct = decimal.RequireFromString("0.02")
)

// Match é o par escolhido para um relatório diário
type Match struct {
	Spend      *domain.AdSpendDaily
	Ledger     *domain.Ledger
	AmountDiff domain.Money
	DateDiff   int
	Status     domain.ReconciliationStatus
}

type candidate struct {
	spend      *domain.AdSpendDaily
	ledger     *domain.Ledger
	amountDiff decimal.Decimal
	dateDiff   int
}

// MatchAll casa relatórios com lançamentos da mesma conta. Cada relatório
// tenta seus candidatos do melhor para o pior; quando o lançamento já está com
// outro relatório, fica com quem tem menor amount_diff, depois menor data e
// depois menor id. O perdedor volta para a fila e tenta o próximo candidato.
// Cada lançamento é usado no máximo uma vez.
func MatchAll(spends []*domain.AdSpendDaily, ledgers []*domain.Ledger) []Match {
	byAccount := make(map[uuid.UUID][]*domain.Ledger)
	for _, l := range ledgers {
		if l.AdAccountID == nil {
			continue
		}
		byAccount[*l.AdAccountID] = append(byAccount[*l.AdAccountID], l)
	}

	queue := make([]*domain.AdSpendDaily, len(spends))
	copy(queue, spends)
	sort.SliceStable(queue, func(i, j int) bool {
		return spendBefore(queue[i], queue[j])
	})

	options := make(map[uuid.UUID][]candidate, len(spends))
	for _, s := range queue {
		options[s.ID] = candidatesFor(s, byAccount[s.AdAccountID])
	}

	next := make(map[uuid.UUID]int, len(spends))
	holders := make(map[uuid.UUID]candidate)

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		opts := options[s.ID]
		for next[s.ID] < len(opts) {
			c := opts[next[s.ID]]
			next[s.ID]++

			current, taken := holders[c.ledger.ID]
			if !taken {
				holders[c.ledger.ID] = c
				break
			}
			if c.winsLedgerOver(current) {
				holders[c.ledger.ID] = c
				queue = append(queue, current.spend)
				break
			}
		}
	}

	matches := make([]Match, 0, len(holders))
	for _, c := range holders {
		matches = append(matches, Match{
			Spend:      c.spend,
			Ledger:     c.ledger,
			AmountDiff: domain.NewMoney(c.amountDiff),
			DateDiff:   c.dateDiff,
			Status:     classify(c.spend.Spend, c.amountDiff, c.dateDiff),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return spendBefore(matches[i].Spend, matches[j].Spend)
	})

	return matches
}

// candidatesFor devolve os lançamentos dentro da tolerância, do melhor para o pior
func candidatesFor(s *domain.AdSpendDaily, ledgers []*domain.Ledger) []candidate {
	tolerance := decimal.Max(s.Spend.Mul(candidateTolerancePct), candidateToleranceMin)

	candidates := make([]candidate, 0)
	for _, l := range ledgers {
		amountDiff := l.Amount.Sub(s.Spend.Decimal).Abs()
		if amountDiff.GreaterThan(tolerance) {
			continue
		}

		dateDiff := domain.DaysBetween(l.OccurredOn(), s.Date)
		if dateDiff > candidateWindowDays {
			continue
		}

		candidates = append(candidates, candidate{spend: s, ledger: l, amountDiff: amountDiff, dateDiff: dateDiff})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rankedBefore(candidates[j])
	})

	return candidates
}

func spendBefore(a, b *domain.AdSpendDaily) bool {
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.Before(b.Date.Time)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func classify(spend domain.Money, amountDiff decimal.Decimal, dateDiff int) domain.ReconciliationStatus {
	if amountDiff.LessThanOrEqual(spend.Mul(autoMatchTolerancePct)) && dateDiff <= autoMatchWindowDays {
		return domain.ReconciliationStatusMatched
	}
	return domain.ReconciliationStatusManualReview
}

// rankedBefore ordena os candidatos de um mesmo relatório:
// amount_diff, date_diff, occurred_at, id do lançamento
func (c candidate) rankedBefore(o candidate) bool {
	if cmp := c.amountDiff.Cmp(o.amountDiff); cmp != 0 {
		return cmp < 0
	}
	if c.dateDiff != o.dateDiff {
		return c.dateDiff < o.dateDiff
	}
	if !c.ledger.OccurredAt.Equal(o.ledger.OccurredAt) {
		return c.ledger.OccurredAt.Before(o.ledger.OccurredAt)
	}
	return bytes.Compare(c.ledger.ID[:], o.ledger.ID[:]) < 0
}

// winsLedgerOver decide a disputa de dois relatórios pelo mesmo lançamento:
// amount_diff, data do relatório, id do relatório
func (c candidate) winsLedgerOver(o candidate) bool {
	if cmp := c.amountDiff.Cmp(o.amountDiff); cmp != 0 {
		return cmp < 0
	}
	return spendBefore(c.spend, o.spend)
}
