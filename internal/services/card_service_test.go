package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartera/internal/core"
)

type fakeStore struct {
	mu     sync.Mutex
	cards  map[int64]core.Card
	txs    []core.Transaction
	nextID int64

	failCreateTx bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{cards: make(map[int64]core.Card)}
}

func (f *fakeStore) CreateCard(_ context.Context, card core.Card) (core.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	card.ID = f.nextID
	card.CreatedAt = time.Now()
	f.cards[card.ID] = card
	return card, nil
}

func (f *fakeStore) GetCard(_ context.Context, id int64) (core.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok {
		return core.Card{}, fmt.Errorf("card %d: not found", id)
	}
	return card, nil
}

func (f *fakeStore) ListCards(_ context.Context) ([]core.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cards := make([]core.Card, 0, len(f.cards))
	for id := int64(1); id <= f.nextID; id++ {
		if card, ok := f.cards[id]; ok {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

func (f *fakeStore) UpdateCard(_ context.Context, card core.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.cards[card.ID]
	if !ok {
		return fmt.Errorf("card %d: not found", card.ID)
	}
	card.CurrentBalance = existing.CurrentBalance
	f.cards[card.ID] = card
	return nil
}

func (f *fakeStore) DeleteCard(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cards[id]; !ok {
		return fmt.Errorf("card %d: not found", id)
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeStore) UpdateCardBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok {
		return fmt.Errorf("card %d: not found", id)
	}
	card.CurrentBalance = balance
	f.cards[id] = card
	return nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateTx {
		return core.Transaction{}, errors.New("disk full")
	}
	f.nextID++
	tx.ID = f.nextID
	tx.CreatedAt = time.Now()
	f.txs = append(f.txs, tx)
	return tx, nil
}

func (f *fakeStore) ListTransactionsByCard(_ context.Context, cardID int64) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Transaction
	for _, tx := range f.txs {
		if tx.CardID == cardID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	ids  []int64
	fail bool
}

func (f *fakePublisher) PublishTransactionSync(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.ids = append(f.ids, id)
	return nil
}

func mustCard(t *testing.T, store *fakeStore, card core.Card) core.Card {
	t.Helper()
	saved, err := store.CreateCard(context.Background(), card)
	require.NoError(t, err)
	return saved
}

func creditCard(t *testing.T, store *fakeStore) core.Card {
	t.Helper()
	return mustCard(t, store, core.Card{
		Name:            "Visa",
		Kind:            core.CardCredit,
		CutOffDay:       15,
		GracePeriodDays: 20,
		CreditLimit:     decimal.RequireFromString("1000"),
	})
}

func debitCard(t *testing.T, store *fakeStore) core.Card {
	t.Helper()
	return mustCard(t, store, core.Card{
		Name:           "Checking",
		Kind:           core.CardDebit,
		OpeningBalance: decimal.RequireFromString("500"),
		CurrentBalance: decimal.RequireFromString("500"),
	})
}

func TestCreateCardDebitOpensAtOpeningBalance(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)

	card, err := svc.CreateCard(context.Background(), core.Card{
		Name:           "Checking",
		Kind:           core.CardDebit,
		OpeningBalance: decimal.RequireFromString("250.50"),
	})
	require.NoError(t, err)
	assert.True(t, card.CurrentBalance.Equal(decimal.RequireFromString("250.50")))
}

func TestCreateCardCreditOpensWithNoDebt(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)

	card, err := svc.CreateCard(context.Background(), core.Card{
		Name:            "Visa",
		Kind:            core.CardCredit,
		CutOffDay:       15,
		GracePeriodDays: 20,
		CreditLimit:     decimal.RequireFromString("1000"),
	})
	require.NoError(t, err)
	assert.True(t, card.CurrentBalance.IsZero())
}

func TestCreateCardRejectsInvalid(t *testing.T) {
	svc := NewCardService(newFakeStore(), nil)

	_, err := svc.CreateCard(context.Background(), core.Card{
		Name: "Broken",
		Kind: core.CardCredit,
		// missing cut-off day
	})
	assert.ErrorIs(t, err, core.ErrInvalidCutOffDay)
}

func TestUpdateCardParameters(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)
	card := creditCard(t, store)

	updated, err := svc.UpdateCard(context.Background(), card.ID, CardUpdate{
		Name:            "Visa Gold",
		CutOffDay:       20,
		GracePeriodDays: 15,
		CreditLimit:     decimal.RequireFromString("2000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Visa Gold", updated.Name)
	assert.Equal(t, 20, updated.CutOffDay)
	assert.Equal(t, 15, updated.GracePeriodDays)
	assert.True(t, updated.CreditLimit.Equal(decimal.RequireFromString("2000")))

	stored, err := store.GetCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Visa Gold", stored.Name)
}

func TestUpdateCardRejectsInvalid(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)
	card := creditCard(t, store)

	_, err := svc.UpdateCard(context.Background(), card.ID, CardUpdate{
		Name:        "Visa",
		CutOffDay:   40,
		CreditLimit: decimal.RequireFromString("1000"),
	})
	assert.ErrorIs(t, err, core.ErrInvalidCutOffDay)
}

func TestDeleteCard(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)
	card := creditCard(t, store)

	require.NoError(t, svc.DeleteCard(context.Background(), card.ID))

	_, err := svc.GetCard(context.Background(), card.ID)
	assert.Error(t, err)
}

func TestRecordTransactionChargeOnCredit(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewCardService(store, pub)
	card := creditCard(t, store)

	created, err := svc.RecordTransaction(context.Background(), NewTransaction{
		CardID:      card.ID,
		Kind:        core.TxCharge,
		Amount:      decimal.RequireFromString("120.99"),
		Date:        core.NewDate(2024, 3, 10),
		Description: "groceries",
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	updated, err := store.GetCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.True(t, updated.CurrentBalance.Equal(decimal.RequireFromString("120.99")),
		"credit balance tracks debt, got %s", updated.CurrentBalance)
	assert.Equal(t, []int64{created[0].ID}, pub.ids)
}

func TestRecordTransactionPaymentOnDebit(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)
	card := debitCard(t, store)

	_, err := svc.RecordTransaction(context.Background(), NewTransaction{
		CardID: card.ID,
		Kind:   core.TxCharge,
		Amount: decimal.RequireFromString("30"),
		Date:   core.NewDate(2024, 3, 10),
	})
	require.NoError(t, err)

	updated, err := store.GetCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.True(t, updated.CurrentBalance.Equal(decimal.RequireFromString("470")))
}

func TestRecordTransactionInstallments(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewCardService(store, pub)
	card := creditCard(t, store)

	created, err := svc.RecordTransaction(context.Background(), NewTransaction{
		CardID:       card.ID,
		Kind:         core.TxCharge,
		Amount:       decimal.RequireFromString("100"),
		Date:         core.NewDate(2024, 1, 31),
		Description:  "television",
		Installments: 3,
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	sum := decimal.Zero
	for i, tx := range created {
		require.NotNil(t, tx.Installment)
		assert.Equal(t, i+1, tx.Installment.Number)
		assert.Equal(t, 3, tx.Installment.Count)
		sum = sum.Add(tx.Amount)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("100")))

	// Jan 31 advances with the day clamped to each month's length.
	assert.Equal(t, "2024-01-31", created[0].Date.String())
	assert.Equal(t, "2024-02-29", created[1].Date.String())
	assert.Equal(t, "2024-03-31", created[2].Date.String())

	updated, err := store.GetCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.True(t, updated.CurrentBalance.Equal(decimal.RequireFromString("100")))
	assert.Len(t, pub.ids, 3)
}

func TestRecordTransactionInstallmentsRequireCredit(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)
	card := debitCard(t, store)

	_, err := svc.RecordTransaction(context.Background(), NewTransaction{
		CardID:       card.ID,
		Kind:         core.TxCharge,
		Amount:       decimal.RequireFromString("100"),
		Date:         core.NewDate(2024, 1, 15),
		Installments: 3,
	})
	assert.ErrorIs(t, err, core.ErrNotCreditCard)
}

func TestRecordTransactionInstallmentPaymentRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)
	card := creditCard(t, store)

	_, err := svc.RecordTransaction(context.Background(), NewTransaction{
		CardID:       card.ID,
		Kind:         core.TxPayment,
		Amount:       decimal.RequireFromString("100"),
		Date:         core.NewDate(2024, 1, 15),
		Installments: 3,
	})
	assert.ErrorIs(t, err, core.ErrInvalidInstallment)
}

func TestRecordTransactionPublishFailureDoesNotFail(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{fail: true}
	svc := NewCardService(store, pub)
	card := creditCard(t, store)

	created, err := svc.RecordTransaction(context.Background(), NewTransaction{
		CardID: card.ID,
		Kind:   core.TxCharge,
		Amount: decimal.RequireFromString("10"),
		Date:   core.NewDate(2024, 3, 1),
	})
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestStatementRequiresCreditCard(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)
	card := debitCard(t, store)

	_, err := svc.Statement(context.Background(), card.ID, core.NewDate(2024, 3, 1))
	assert.ErrorIs(t, err, core.ErrNotCreditCard)

	_, err = svc.NextStatement(context.Background(), card.ID, core.NewDate(2024, 3, 1))
	assert.ErrorIs(t, err, core.ErrNotCreditCard)
}

func TestStatementReconcilesHistory(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)
	card := creditCard(t, store)

	_, err := svc.RecordTransaction(context.Background(), NewTransaction{
		CardID: card.ID,
		Kind:   core.TxCharge,
		Amount: decimal.RequireFromString("200"),
		Date:   core.NewDate(2024, 3, 10),
	})
	require.NoError(t, err)

	rec, err := svc.Statement(context.Background(), card.ID, core.NewDate(2024, 3, 20))
	require.NoError(t, err)

	// Cut-off 15: the cycle (Feb 16, Mar 15] closed most recently, due Apr 4.
	assert.Equal(t, "2024-03-15", rec.Statement.End.String())
	assert.Equal(t, "2024-04-04", rec.Statement.PaymentDue.String())
	assert.True(t, rec.Net.Equal(decimal.RequireFromString("200")))
	assert.False(t, rec.Overdue)
}

func TestBalancesUseCardSeed(t *testing.T) {
	store := newFakeStore()
	svc := NewCardService(store, nil)
	card := creditCard(t, store)

	_, err := svc.RecordTransaction(context.Background(), NewTransaction{
		CardID: card.ID,
		Kind:   core.TxCharge,
		Amount: decimal.RequireFromString("300"),
		Date:   core.NewDate(2024, 3, 10),
	})
	require.NoError(t, err)

	points, err := svc.Balances(context.Background(), card.ID)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.True(t, points[0].Balance.Equal(decimal.RequireFromString("700")),
		"available credit after a 300 charge on a 1000 limit")
}
