// Package billing implements the card billing-cycle arithmetic: cut-off
// dates, payment due dates, statement reconciliation and running balances.
//
// Everything here is a pure function of (card parameters, transactions,
// reference date). The reference date is always passed in explicitly; nothing
// in this package reads the clock.
package billing

import (
	"time"

	"cartera/internal/core"
)

// Cycle is one billing period. Transactions dated within [Start, End] belong
// to the statement closing on End. Start is the day after the previous
// cut-off, so consecutive cycles are contiguous and never overlap.
type Cycle struct {
	Start core.Date `json:"start"`
	End   core.Date `json:"end"`
}

// Statement is a closed or closing cycle together with its payment due date.
type Statement struct {
	Cycle
	PaymentDue core.Date `json:"payment_due"`
}

// lastDayOfMonth uses the day-zero normalization trick: day 0 of the next
// month is the last day of this one.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// cutOffInMonth places the cut-off day inside a specific month, clamping to
// the month's last day when the month is too short (cut-off 31 in April is
// April 30, and February 29 only in leap years).
func cutOffInMonth(year int, month time.Month, cutOffDay int) core.Date {
	day := cutOffDay
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return core.NewDate(year, int(month), day)
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// CutOffOnOrAfter returns the first cut-off date on or after ref: the
// clamped cut-off in ref's month, rolled to the next month when it has
// already passed. A ref falling exactly on the cut-off day counts as "on",
// so that day's own cut-off is returned.
func CutOffOnOrAfter(cutOffDay int, ref core.Date) core.Date {
	c := cutOffInMonth(ref.Year(), ref.Month(), cutOffDay)
	if c.Before(ref) {
		y, m := nextMonth(ref.Year(), ref.Month())
		c = cutOffInMonth(y, m, cutOffDay)
	}
	return c
}

// UpcomingPaymentDue returns the payment due date that follows the next
// cut-off: CutOffOnOrAfter plus the grace period as a fixed day count. The
// day-of-month clamp does not re-apply to the addition, so cut-off Dec 31
// with 5 days grace is due Jan 5.
func UpcomingPaymentDue(cutOffDay, graceDays int, ref core.Date) core.Date {
	return CutOffOnOrAfter(cutOffDay, ref).AddDays(graceDays)
}

// CycleContaining returns the billing cycle ref falls in. End is the most
// recent cut-off on or before ref; Start is the day after the cut-off one
// month earlier.
func CycleContaining(cutOffDay int, ref core.Date) Cycle {
	end := cutOffInMonth(ref.Year(), ref.Month(), cutOffDay)
	if end.After(ref) {
		y, m := prevMonth(ref.Year(), ref.Month())
		end = cutOffInMonth(y, m, cutOffDay)
	}
	py, pm := prevMonth(end.Year(), end.Month())
	start := cutOffInMonth(py, pm, cutOffDay).AddDays(1)
	return Cycle{Start: start, End: end}
}

// LastClosedStatement returns the statement of the most recently closed
// cycle as of ref, with its payment due date. The due date may already be in
// the past; reconciliation relies on that to detect overdue statements.
func LastClosedStatement(cutOffDay, graceDays int, ref core.Date) Statement {
	c := CycleContaining(cutOffDay, ref)
	return Statement{Cycle: c, PaymentDue: c.End.AddDays(graceDays)}
}

// StatementForPayment returns the statement whose payment is currently due
// or next due as of ref. The most recently closed cycle stays relevant
// through its payment due date inclusive; strictly after the due date the
// relevant statement advances to the cycle currently open, even though that
// cycle has not closed yet.
func StatementForPayment(cutOffDay, graceDays int, ref core.Date) Statement {
	closed := LastClosedStatement(cutOffDay, graceDays, ref)
	if !ref.After(closed.PaymentDue) {
		return closed
	}
	ny, nm := nextMonth(closed.End.Year(), closed.End.Month())
	end := cutOffInMonth(ny, nm, cutOffDay)
	open := Cycle{Start: closed.End.AddDays(1), End: end}
	return Statement{Cycle: open, PaymentDue: end.AddDays(graceDays)}
}

// FirstInstallmentDue returns the payment due date of the statement that
// will first include a charge made on chargeDate. A charge on the cut-off
// day itself still closes with that day's statement; a charge one day later
// belongs to the next cycle.
func FirstInstallmentDue(chargeDate core.Date, cutOffDay, graceDays int) core.Date {
	return CutOffOnOrAfter(cutOffDay, chargeDate).AddDays(graceDays)
}

// Contains reports whether d falls within the cycle, bounds inclusive.
func (c Cycle) Contains(d core.Date) bool {
	return !d.Before(c.Start) && !d.After(c.End)
}
