package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateOfTruncatesToCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*3600)
	instant := time.Date(2024, 5, 3, 23, 45, 12, 0, loc)
	d := DateOf(instant)
	if !d.Equal(NewDate(2024, 5, 3)) {
		t.Fatalf("DateOf = %s, want 2024-05-03", d)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(NewDate(2024, 2, 29)) {
		t.Errorf("got %s", d)
	}
	if _, err := ParseDate("not-a-date"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("got %v, want ErrInvalidDate", err)
	}
}

func TestDateDaysUntil(t *testing.T) {
	a := NewDate(2024, 12, 31)
	b := NewDate(2025, 1, 5)
	if got := a.DaysUntil(b); got != 5 {
		t.Errorf("DaysUntil = %d, want 5", got)
	}
}

func TestCardValidate(t *testing.T) {
	tests := []struct {
		name string
		card Card
		ok   bool
	}{
		{
			name: "valid credit card",
			card: Card{Name: "Visa", Kind: CardCredit, CutOffDay: 15, GracePeriodDays: 20, CreditLimit: decimal.NewFromInt(1000)},
			ok:   true,
		},
		{
			name: "valid debit card",
			card: Card{Name: "Checking", Kind: CardDebit, OpeningBalance: decimal.NewFromInt(100)},
			ok:   true,
		},
		{
			name: "credit card without cut-off day",
			card: Card{Name: "Visa", Kind: CardCredit, GracePeriodDays: 20},
			ok:   false,
		},
		{
			name: "cut-off day out of range",
			card: Card{Name: "Visa", Kind: CardCredit, CutOffDay: 32, GracePeriodDays: 20},
			ok:   false,
		},
		{
			name: "debit card with billing parameters",
			card: Card{Name: "Checking", Kind: CardDebit, CutOffDay: 15, GracePeriodDays: 20},
			ok:   false,
		},
		{
			name: "empty name",
			card: Card{Name: "  ", Kind: CardDebit},
			ok:   false,
		},
		{
			name: "unknown kind",
			card: Card{Name: "X", Kind: "prepaid"},
			ok:   false,
		},
		{
			name: "negative credit limit",
			card: Card{Name: "Visa", Kind: CardCredit, CutOffDay: 1, GracePeriodDays: 1, CreditLimit: decimal.NewFromInt(-1)},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected ok, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Kind: TxCharge, Amount: decimal.NewFromInt(10), Date: NewDate(2024, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Kind: "refund", Amount: decimal.NewFromInt(10), Date: NewDate(2024, 1, 1)},
		{Kind: TxCharge, Amount: decimal.Zero, Date: NewDate(2024, 1, 1)},
		{Kind: TxCharge, Amount: decimal.NewFromInt(-5), Date: NewDate(2024, 1, 1)},
		{Kind: TxPayment, Amount: decimal.NewFromInt(10)},
		{Kind: TxCharge, Amount: decimal.NewFromInt(10), Date: NewDate(2024, 1, 1),
			Installment: &Installment{TotalAmount: decimal.NewFromInt(30), Count: 1, Number: 1}},
		{Kind: TxCharge, Amount: decimal.NewFromInt(10), Date: NewDate(2024, 1, 1),
			Installment: &Installment{TotalAmount: decimal.NewFromInt(30), Count: 3, Number: 4}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Errorf("case %d expected error", i)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 7, 9)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-07-09"` {
		t.Fatalf("marshal = %s", b)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip: %s != %s", back, d)
	}
}
