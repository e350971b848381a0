package billing

import (
	"testing"

	"github.com/shopspring/decimal"

	"cartera/internal/core"
)

func charge(amount string, date core.Date) core.Transaction {
	return core.Transaction{
		Kind:      core.TxCharge,
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
		CreatedAt: date.Time,
	}
}

func payment(amount string, date core.Date) core.Transaction {
	return core.Transaction{
		Kind:      core.TxPayment,
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
		CreatedAt: date.Time,
	}
}

func TestReconcile(t *testing.T) {
	// Cut-off on the 15th, 5 days grace: the statement closing 2024-01-15
	// covers 2023-12-16 through 2024-01-15 and is due 2024-01-20.
	const cutOff, grace = 15, 5

	tests := []struct {
		name         string
		txs          []core.Transaction
		today        core.Date
		wantCharges  string
		wantPayments string
		wantOverdue  bool
	}{
		{
			name:        "no transactions is never overdue",
			txs:         nil,
			today:       core.NewDate(2024, 1, 25),
			wantCharges: "0", wantPayments: "0", wantOverdue: false,
		},
		{
			name: "unpaid statement past due date is overdue",
			txs: []core.Transaction{
				charge("100", core.NewDate(2024, 1, 10)),
			},
			today:       core.NewDate(2024, 1, 21),
			wantCharges: "100", wantPayments: "0", wantOverdue: true,
		},
		{
			name: "unpaid statement before due date is not overdue",
			txs: []core.Transaction{
				charge("100", core.NewDate(2024, 1, 10)),
			},
			today:       core.NewDate(2024, 1, 20),
			wantCharges: "100", wantPayments: "0", wantOverdue: false,
		},
		{
			name: "payment after cut-off but before due date settles the statement",
			txs: []core.Transaction{
				charge("100", core.NewDate(2024, 1, 10)),
				payment("100", core.NewDate(2024, 1, 18)),
			},
			today:       core.NewDate(2024, 1, 25),
			wantCharges: "100", wantPayments: "100", wantOverdue: false,
		},
		{
			name: "charge after the cut-off belongs to the next statement",
			txs: []core.Transaction{
				charge("100", core.NewDate(2024, 1, 16)),
			},
			today:       core.NewDate(2024, 1, 21),
			wantCharges: "0", wantPayments: "0", wantOverdue: false,
		},
		{
			name: "partial payment leaves the statement overdue",
			txs: []core.Transaction{
				charge("80", core.NewDate(2023, 12, 20)),
				charge("20", core.NewDate(2024, 1, 2)),
				payment("50", core.NewDate(2024, 1, 19)),
			},
			today:       core.NewDate(2024, 1, 22),
			wantCharges: "100", wantPayments: "50", wantOverdue: true,
		},
		{
			name: "overpayment is a negative net, not overdue",
			txs: []core.Transaction{
				charge("40", core.NewDate(2024, 1, 5)),
				payment("60", core.NewDate(2024, 1, 12)),
			},
			today:       core.NewDate(2024, 1, 25),
			wantCharges: "40", wantPayments: "60", wantOverdue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(cutOff, grace, tt.txs, tt.today)
			if !got.Charges.Equal(decimal.RequireFromString(tt.wantCharges)) {
				t.Errorf("charges = %s, want %s", got.Charges, tt.wantCharges)
			}
			if !got.Payments.Equal(decimal.RequireFromString(tt.wantPayments)) {
				t.Errorf("payments = %s, want %s", got.Payments, tt.wantPayments)
			}
			if got.Overdue != tt.wantOverdue {
				t.Errorf("overdue = %v, want %v", got.Overdue, tt.wantOverdue)
			}
			if !got.Net.Equal(got.Charges.Sub(got.Payments)) {
				t.Errorf("net %s does not equal charges minus payments", got.Net)
			}
		})
	}
}

func TestReconcileBalancedStatementNeverOverdue(t *testing.T) {
	// A statement whose charges equal its payments is never overdue,
	// whatever the reference date.
	txs := []core.Transaction{
		charge("250.50", core.NewDate(2024, 1, 3)),
		payment("250.50", core.NewDate(2024, 1, 17)),
	}
	day := core.NewDate(2024, 1, 16)
	for i := 0; i < 60; i++ {
		got := Reconcile(15, 5, txs, day)
		if got.Overdue && got.Net.Equal(decimal.Zero) {
			t.Fatalf("balanced statement flagged overdue on %s", day)
		}
		day = day.AddDays(1)
	}
}

func TestReconcileDeterministic(t *testing.T) {
	txs := []core.Transaction{
		charge("10", core.NewDate(2024, 1, 5)),
		payment("4", core.NewDate(2024, 1, 18)),
	}
	today := core.NewDate(2024, 1, 22)
	first := Reconcile(15, 5, txs, today)
	for i := 0; i < 10; i++ {
		again := Reconcile(15, 5, txs, today)
		if !again.Net.Equal(first.Net) || again.Overdue != first.Overdue {
			t.Fatal("identical inputs produced different reconciliations")
		}
	}
	// The input slice must be untouched.
	if !txs[0].Date.Equal(core.NewDate(2024, 1, 5)) {
		t.Fatal("input slice was modified")
	}
}
