package billing

import (
	"github.com/shopspring/decimal"

	"cartera/internal/core"
)

// InstallmentCharge is one monthly piece of a charge split over count months.
type InstallmentCharge struct {
	Number int
	Amount decimal.Decimal
	Date   core.Date
}

// addMonthsClamped advances a date by whole months, clamping the day to the
// target month's length so Jan 31 + 1 month is Feb 28/29, not Mar 2.
func addMonthsClamped(d core.Date, months int) core.Date {
	y, m := d.Year(), d.Month()
	for i := 0; i < months; i++ {
		y, m = nextMonth(y, m)
	}
	day := d.Day()
	if last := lastDayOfMonth(y, m); day > last {
		day = last
	}
	return core.NewDate(y, int(m), day)
}

// SplitInstallments divides a total over count monthly pieces starting on
// first. Each piece is the total over count rounded to cents; the last piece
// absorbs the rounding remainder so the pieces always sum to the total.
// Piece dates advance one clamped month at a time, which lands each piece in
// a successive billing cycle.
func SplitInstallments(total decimal.Decimal, count int, first core.Date) ([]InstallmentCharge, error) {
	if count < 2 {
		return nil, core.ErrInvalidInstallment
	}
	if !total.IsPositive() {
		return nil, core.ErrInvalidAmount
	}

	piece := total.Div(decimal.NewFromInt(int64(count))).Round(2)
	charges := make([]InstallmentCharge, count)
	allocated := decimal.Zero
	for i := 0; i < count; i++ {
		amount := piece
		if i == count-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		charges[i] = InstallmentCharge{
			Number: i + 1,
			Amount: amount,
			Date:   addMonthsClamped(first, i),
		}
	}
	return charges, nil
}
