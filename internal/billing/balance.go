package billing

import (
	"sort"

	"github.com/shopspring/decimal"

	"cartera/internal/core"
)

// BalancePoint is one transaction annotated with the balance after it.
type BalancePoint struct {
	Transaction core.Transaction `json:"transaction"`
	Balance     decimal.Decimal  `json:"balance"`
}

// SeedFor picks the starting balance for a running-balance trace: available
// credit starts from the limit, a debit trace reconstructs history from the
// opening balance.
func SeedFor(card core.Card) decimal.Decimal {
	if card.IsCredit() {
		return card.CreditLimit
	}
	return card.OpeningBalance
}

// RunningBalances walks the transactions in chronological order and attaches
// the running balance after each one. A charge decreases the balance and a
// payment increases it, in both the credit-available and debit framings.
//
// The input is sorted by (date, createdAt) with a stable sort, so true ties
// keep insertion order and repeated calls on identical input are
// deterministic. The input slice is not modified. An empty history yields an
// empty trace. Negative balances are valid output: over-limit and overdrawn
// states are the caller's policy to surface, not ours to clamp.
func RunningBalances(txs []core.Transaction, seed decimal.Decimal) []BalancePoint {
	ordered := make([]core.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	points := make([]BalancePoint, 0, len(ordered))
	running := seed
	for _, tx := range ordered {
		if tx.Kind == core.TxCharge {
			running = running.Sub(tx.Amount)
		} else {
			running = running.Add(tx.Amount)
		}
		points = append(points, BalancePoint{Transaction: tx, Balance: running})
	}
	return points
}
