package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cartera/internal/core"
)

func TestRunningBalancesDebitScenario(t *testing.T) {
	// Seed 100, charge 30 on day 1, payment 10 on day 2 -> balances 70, 80.
	txs := []core.Transaction{
		charge("30", core.NewDate(2024, 1, 1)),
		payment("10", core.NewDate(2024, 1, 2)),
	}
	points := RunningBalances(txs, decimal.NewFromInt(100))
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	want := []string{"70", "80"}
	for i, w := range want {
		if !points[i].Balance.Equal(decimal.RequireFromString(w)) {
			t.Errorf("point %d balance = %s, want %s", i, points[i].Balance, w)
		}
	}
}

func TestRunningBalancesSortsOutOfOrderInput(t *testing.T) {
	txs := []core.Transaction{
		payment("10", core.NewDate(2024, 1, 2)),
		charge("30", core.NewDate(2024, 1, 1)),
	}
	points := RunningBalances(txs, decimal.NewFromInt(100))
	if points[0].Transaction.Kind != core.TxCharge {
		t.Fatal("expected the earlier charge first after sorting")
	}
	if !points[1].Balance.Equal(decimal.NewFromInt(80)) {
		t.Errorf("final balance = %s, want 80", points[1].Balance)
	}
	// Input order must be preserved.
	if txs[0].Kind != core.TxPayment {
		t.Fatal("input slice was reordered")
	}
}

func TestRunningBalancesSameDayTiebreak(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	first := charge("20", day)
	first.CreatedAt = base
	second := payment("5", day)
	second.CreatedAt = base.Add(time.Minute)

	// Listed out of creation order; createdAt must decide.
	points := RunningBalances([]core.Transaction{second, first}, decimal.NewFromInt(50))
	if points[0].Transaction.Kind != core.TxCharge {
		t.Fatal("same-day transactions not ordered by createdAt")
	}
	if !points[0].Balance.Equal(decimal.NewFromInt(30)) || !points[1].Balance.Equal(decimal.NewFromInt(35)) {
		t.Errorf("balances = %s, %s, want 30, 35", points[0].Balance, points[1].Balance)
	}
}

func TestRunningBalancesFinalEqualsSeedPlusNet(t *testing.T) {
	txs := []core.Transaction{
		charge("12.50", core.NewDate(2024, 1, 1)),
		payment("7.25", core.NewDate(2024, 1, 3)),
		charge("100", core.NewDate(2024, 2, 1)),
		payment("30", core.NewDate(2024, 2, 15)),
		charge("0.05", core.NewDate(2024, 2, 16)),
	}
	seed := decimal.RequireFromString("500")

	sum := seed
	for _, tx := range txs {
		if tx.Kind == core.TxCharge {
			sum = sum.Sub(tx.Amount)
		} else {
			sum = sum.Add(tx.Amount)
		}
	}

	points := RunningBalances(txs, seed)
	if !points[len(points)-1].Balance.Equal(sum) {
		t.Errorf("final balance = %s, want %s", points[len(points)-1].Balance, sum)
	}
}

func TestRunningBalancesEmptyAndNegative(t *testing.T) {
	if points := RunningBalances(nil, decimal.NewFromInt(100)); len(points) != 0 {
		t.Errorf("empty history produced %d points", len(points))
	}

	// Over-limit balances are valid output, not clamped.
	txs := []core.Transaction{charge("150", core.NewDate(2024, 1, 1))}
	points := RunningBalances(txs, decimal.NewFromInt(100))
	if !points[0].Balance.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("balance = %s, want -50", points[0].Balance)
	}
}

func TestSeedFor(t *testing.T) {
	credit := core.Card{Kind: core.CardCredit, CreditLimit: decimal.NewFromInt(1000), OpeningBalance: decimal.NewFromInt(5)}
	debit := core.Card{Kind: core.CardDebit, CreditLimit: decimal.Zero, OpeningBalance: decimal.NewFromInt(250)}

	if !SeedFor(credit).Equal(decimal.NewFromInt(1000)) {
		t.Errorf("credit seed = %s, want the credit limit", SeedFor(credit))
	}
	if !SeedFor(debit).Equal(decimal.NewFromInt(250)) {
		t.Errorf("debit seed = %s, want the opening balance", SeedFor(debit))
	}
}
