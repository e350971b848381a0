package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"cartera/internal/billing"
	"cartera/internal/core"
	applog "cartera/internal/log"
)

// Store is the slice of the repository the card service needs.
type Store interface {
	CreateCard(ctx context.Context, card core.Card) (core.Card, error)
	GetCard(ctx context.Context, id int64) (core.Card, error)
	ListCards(ctx context.Context) ([]core.Card, error)
	UpdateCard(ctx context.Context, card core.Card) error
	UpdateCardBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	DeleteCard(ctx context.Context, id int64) error
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	ListTransactionsByCard(ctx context.Context, cardID int64) ([]core.Transaction, error)
}

// SyncPublisher publishes export sync messages. Nil-able: the service degrades
// to local-only persistence when no broker is configured.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id int64) error
}

// CardService orchestrates card operations across SQLite and AMQP.
type CardService struct {
	storage    Store
	amqpClient SyncPublisher
}

func NewCardService(storage Store, amqpClient SyncPublisher) *CardService {
	return &CardService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateCard validates and persists a new card. A debit card opens at its
// opening balance; a credit card opens with no debt.
func (s *CardService) CreateCard(ctx context.Context, card core.Card) (core.Card, error) {
	if err := card.Validate(); err != nil {
		return core.Card{}, err
	}
	if card.Kind == core.CardDebit {
		card.CurrentBalance = card.OpeningBalance
	} else {
		card.CurrentBalance = decimal.Zero
	}
	return s.storage.CreateCard(ctx, card)
}

func (s *CardService) GetCard(ctx context.Context, id int64) (core.Card, error) {
	return s.storage.GetCard(ctx, id)
}

func (s *CardService) ListCards(ctx context.Context) ([]core.Card, error) {
	return s.storage.ListCards(ctx)
}

// CardUpdate holds the editable parameters of an existing card. Kind and
// balances are not editable; balances only move through transactions.
type CardUpdate struct {
	Name            string
	CutOffDay       int
	GracePeriodDays int
	CreditLimit     decimal.Decimal
}

// UpdateCard applies new parameters to an existing card and returns it.
// Billing-cycle parameters are only applied to credit cards.
func (s *CardService) UpdateCard(ctx context.Context, id int64, in CardUpdate) (core.Card, error) {
	card, err := s.storage.GetCard(ctx, id)
	if err != nil {
		return core.Card{}, err
	}

	card.Name = in.Name
	card.CreditLimit = in.CreditLimit
	if card.IsCredit() {
		card.CutOffDay = in.CutOffDay
		card.GracePeriodDays = in.GracePeriodDays
	}
	if err := card.Validate(); err != nil {
		return core.Card{}, err
	}

	if err := s.storage.UpdateCard(ctx, card); err != nil {
		return core.Card{}, err
	}
	return card, nil
}

func (s *CardService) DeleteCard(ctx context.Context, id int64) error {
	return s.storage.DeleteCard(ctx, id)
}

func (s *CardService) ListTransactions(ctx context.Context, cardID int64) ([]core.Transaction, error) {
	if _, err := s.storage.GetCard(ctx, cardID); err != nil {
		return nil, err
	}
	return s.storage.ListTransactionsByCard(ctx, cardID)
}

// NewTransaction is the input for recording a charge or payment.
// Installments of 2 or more splits a credit-card charge into monthly pieces.
type NewTransaction struct {
	CardID       int64
	Kind         core.TransactionKind
	Amount       decimal.Decimal
	Date         core.Date
	Description  string
	Installments int
}

// RecordTransaction saves one transaction, or the full set of monthly pieces
// for an installment purchase, updates the card balance, and publishes a sync
// message per saved row. Publish failures are logged and never fail the
// request; the sync worker catches up from the pending flag.
func (s *CardService) RecordTransaction(ctx context.Context, in NewTransaction) ([]core.Transaction, error) {
	card, err := s.storage.GetCard(ctx, in.CardID)
	if err != nil {
		return nil, err
	}

	txs, err := buildTransactions(card, in)
	if err != nil {
		return nil, err
	}

	created := make([]core.Transaction, 0, len(txs))
	balance := card.CurrentBalance
	for _, tx := range txs {
		saved, err := s.storage.CreateTransaction(ctx, tx)
		if err != nil {
			return created, fmt.Errorf("save transaction: %w", err)
		}
		created = append(created, saved)
		balance = applyToBalance(card.Kind, balance, saved)
	}

	if err := s.storage.UpdateCardBalance(ctx, card.ID, balance); err != nil {
		return created, fmt.Errorf("update card balance: %w", err)
	}

	for _, tx := range created {
		if err := s.publishSyncMessage(ctx, tx.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message",
				applog.FieldTransactionID, tx.ID, applog.FieldError, err)
		}
	}

	return created, nil
}

func buildTransactions(card core.Card, in NewTransaction) ([]core.Transaction, error) {
	if in.Installments >= 2 {
		if !card.IsCredit() {
			return nil, core.ErrNotCreditCard
		}
		if in.Kind != core.TxCharge {
			return nil, core.ErrInvalidInstallment
		}

		pieces, err := billing.SplitInstallments(in.Amount, in.Installments, in.Date)
		if err != nil {
			return nil, err
		}

		txs := make([]core.Transaction, len(pieces))
		for i, piece := range pieces {
			txs[i] = core.Transaction{
				CardID:      card.ID,
				Kind:        core.TxCharge,
				Amount:      piece.Amount,
				Date:        piece.Date,
				Description: in.Description,
				Installment: &core.Installment{
					TotalAmount: in.Amount,
					Count:       in.Installments,
					Number:      piece.Number,
				},
			}
			if err := txs[i].Validate(); err != nil {
				return nil, err
			}
		}
		return txs, nil
	}

	tx := core.Transaction{
		CardID:      card.ID,
		Kind:        in.Kind,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return []core.Transaction{tx}, nil
}

// applyToBalance moves the stored balance for one transaction. A credit
// card's balance tracks debt owed, a debit card's tracks available funds, so
// the same kind moves them in opposite directions.
func applyToBalance(kind core.CardKind, balance decimal.Decimal, tx core.Transaction) decimal.Decimal {
	if kind == core.CardCredit {
		if tx.Kind == core.TxCharge {
			return balance.Add(tx.Amount)
		}
		return balance.Sub(tx.Amount)
	}
	if tx.Kind == core.TxCharge {
		return balance.Sub(tx.Amount)
	}
	return balance.Add(tx.Amount)
}

// Statement reconciles a credit card's history against its most recently
// closed statement as of today.
func (s *CardService) Statement(ctx context.Context, cardID int64, today core.Date) (billing.Reconciliation, error) {
	card, err := s.storage.GetCard(ctx, cardID)
	if err != nil {
		return billing.Reconciliation{}, err
	}
	if !card.IsCredit() {
		return billing.Reconciliation{}, core.ErrNotCreditCard
	}

	txs, err := s.storage.ListTransactionsByCard(ctx, cardID)
	if err != nil {
		return billing.Reconciliation{}, err
	}
	return billing.Reconcile(card.CutOffDay, card.GracePeriodDays, txs, today), nil
}

// NextStatement returns the statement whose payment is currently due or next
// due for a credit card.
func (s *CardService) NextStatement(ctx context.Context, cardID int64, today core.Date) (billing.Statement, error) {
	card, err := s.storage.GetCard(ctx, cardID)
	if err != nil {
		return billing.Statement{}, err
	}
	if !card.IsCredit() {
		return billing.Statement{}, core.ErrNotCreditCard
	}
	return billing.StatementForPayment(card.CutOffDay, card.GracePeriodDays, today), nil
}

// Balances returns the card's transactions annotated with running balances.
func (s *CardService) Balances(ctx context.Context, cardID int64) ([]billing.BalancePoint, error) {
	card, err := s.storage.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	txs, err := s.storage.ListTransactionsByCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return billing.RunningBalances(txs, billing.SeedFor(card)), nil
}

func (s *CardService) publishSyncMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishTransactionSync(ctx, id)
}
