package billing

import (
	"github.com/shopspring/decimal"

	"cartera/internal/core"
)

// Reconciliation is the outcome of settling a card's transaction history
// against its most recently closed statement.
type Reconciliation struct {
	Statement Statement       `json:"statement"`
	Charges   decimal.Decimal `json:"charges"`
	Payments  decimal.Decimal `json:"payments"`
	Net       decimal.Decimal `json:"net"`
	Overdue   bool            `json:"overdue"`
}

// Reconcile partitions a card's transactions into the statement currently
// awaiting payment and reports whether it is overdue as of today.
//
// Charges count when dated within [Start, End]. Payments count through the
// payment due date, so paying after the cut-off but before the due date
// still settles the statement. The statement is overdue only when today is
// strictly past the due date and the net balance is positive: a cycle with
// no charges, or one paid in full, is never overdue.
//
// Precondition: the card is a credit card. Callers gate on card kind; a
// zero cutOffDay produces meaningless dates rather than an error.
func Reconcile(cutOffDay, graceDays int, txs []core.Transaction, today core.Date) Reconciliation {
	st := LastClosedStatement(cutOffDay, graceDays, today)

	charges := decimal.Zero
	payments := decimal.Zero
	for _, tx := range txs {
		switch tx.Kind {
		case core.TxCharge:
			if st.Contains(tx.Date) {
				charges = charges.Add(tx.Amount)
			}
		case core.TxPayment:
			if !tx.Date.Before(st.Start) && !tx.Date.After(st.PaymentDue) {
				payments = payments.Add(tx.Amount)
			}
		}
	}

	net := charges.Sub(payments)
	return Reconciliation{
		Statement: st,
		Charges:   charges,
		Payments:  payments,
		Net:       net,
		Overdue:   today.After(st.PaymentDue) && net.IsPositive(),
	}
}
