package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CardCredit CardKind = "credit"
	CardDebit  CardKind = "debit"
)

const (
	TxCharge  TransactionKind = "charge"
	TxPayment TransactionKind = "payment"
)

const (
	DebtOwedToMe DebtKind = "debtor"
	DebtIOwe     DebtKind = "creditor"
)

type (
	CardKind        string
	TransactionKind string
	DebtKind        string

	// Date is a calendar day with no time-of-day component, normalized to
	// midnight UTC. All billing arithmetic compares whole days.
	Date struct {
		time.Time
	}

	// Card holds the persisted parameters of a card account. Credit cards
	// carry both CutOffDay and GracePeriodDays; debit cards carry neither
	// (zero values), and their CurrentBalance means available funds rather
	// than debt owed.
	Card struct {
		ID              int64
		Name            string
		Kind            CardKind
		CutOffDay       int // day of month closing the billing cycle, 1-31
		GracePeriodDays int // days from cut-off to payment due
		CreditLimit     decimal.Decimal
		OpeningBalance  decimal.Decimal
		CurrentBalance  decimal.Decimal
		CreatedAt       time.Time
	}

	// Installment marks a transaction as one monthly piece of a larger charge.
	Installment struct {
		TotalAmount decimal.Decimal
		Count       int
		Number      int
	}

	Transaction struct {
		ID          int64
		CardID      int64
		Kind        TransactionKind
		Amount      decimal.Decimal // always positive; Kind carries the sign
		Date        Date
		Description string
		Installment *Installment
		CreatedAt   time.Time // orders same-day transactions deterministically
	}

	// Debt tracks money lent to (debtor) or borrowed from (creditor) someone.
	Debt struct {
		ID        int64
		Name      string
		Kind      DebtKind
		Amount    decimal.Decimal
		Note      string
		Settled   bool
		CreatedAt time.Time
	}

	SavingsGoal struct {
		ID           int64
		Name         string
		TargetAmount decimal.Decimal
		SavedAmount  decimal.Decimal
		Deadline     Date
		CreatedAt    time.Time
	}

	// Challenge is a gamified savings target.
	Challenge struct {
		ID           int64
		Name         string
		TargetAmount decimal.Decimal
		SavedAmount  decimal.Decimal
		Completed    bool
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidKind        = errors.New("invalid kind")
	ErrInvalidCutOffDay   = errors.New("cut-off day must be between 1 and 31")
	ErrInvalidGraceDays   = errors.New("grace period days must not be negative")
	ErrNotCreditCard      = errors.New("operation requires a credit card")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidInstallment = errors.New("invalid installment plan")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to the calendar day it falls on in its own
// location. This is the single point where "now" becomes a business day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current calendar day in the local time zone.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// AddDays returns the date n calendar days later (earlier when negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d falls on a later day than other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (k CardKind) Valid() bool {
	return k == CardCredit || k == CardDebit
}

func (k TransactionKind) Valid() bool {
	return k == TxCharge || k == TxPayment
}

func (k DebtKind) Valid() bool {
	return k == DebtOwedToMe || k == DebtIOwe
}

// IsCredit reports whether the card carries billing-cycle parameters.
func (c Card) IsCredit() bool { return c.Kind == CardCredit }

func (c Card) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	if c.CreditLimit.IsNegative() {
		return errors.New("credit limit must not be negative")
	}
	switch c.Kind {
	case CardCredit:
		if c.CutOffDay < 1 || c.CutOffDay > 31 {
			return ErrInvalidCutOffDay
		}
		if c.GracePeriodDays < 0 {
			return ErrInvalidGraceDays
		}
	case CardDebit:
		// Cut-off day and grace period are both present or both absent.
		if c.CutOffDay != 0 || c.GracePeriodDays != 0 {
			return errors.New("debit cards carry no cut-off day or grace period")
		}
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Installment != nil {
		return t.Installment.Validate()
	}
	return nil
}

func (i Installment) Validate() error {
	if i.Count < 2 {
		return ErrInvalidInstallment
	}
	if i.Number < 1 || i.Number > i.Count {
		return ErrInvalidInstallment
	}
	if !i.TotalAmount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (d Debt) Validate() error {
	if len(strings.TrimSpace(d.Name)) == 0 {
		return ErrEmptyName
	}
	if !d.Kind.Valid() {
		return ErrInvalidKind
	}
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.SavedAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (c Challenge) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if !c.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if c.SavedAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
