package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"cartera/internal/amqp"
	"cartera/internal/billing"
	"cartera/internal/core"
	applog "cartera/internal/log"
)

// ReminderPublisher publishes payment reminder messages.
type ReminderPublisher interface {
	PublishPaymentReminder(ctx context.Context, msg *amqp.PaymentReminderMessage) error
}

// ReminderScanner walks all credit cards and publishes a reminder for every
// statement that is overdue or whose payment due date falls within the
// lookahead window.
type ReminderScanner struct {
	storage       Store
	publisher     ReminderPublisher
	lookaheadDays int
}

func NewReminderScanner(storage Store, publisher ReminderPublisher, lookaheadDays int) *ReminderScanner {
	return &ReminderScanner{
		storage:       storage,
		publisher:     publisher,
		lookaheadDays: lookaheadDays,
	}
}

// Scan reconciles every credit card as of today and returns how many
// reminders were published. Cards are scanned concurrently with a small
// limit so a big portfolio does not hammer the database.
func (r *ReminderScanner) Scan(ctx context.Context, today core.Date) (int, error) {
	cards, err := r.storage.ListCards(ctx)
	if err != nil {
		return 0, fmt.Errorf("list cards: %w", err)
	}

	var published atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, card := range cards {
		if !card.IsCredit() {
			continue
		}
		g.Go(func() error {
			sent, err := r.scanCard(ctx, card, today)
			if err != nil {
				return err
			}
			if sent {
				published.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(published.Load()), err
	}

	slog.InfoContext(ctx, "Reminder scan complete",
		"cards_checked", len(cards),
		"reminders_published", published.Load())

	return int(published.Load()), nil
}

func (r *ReminderScanner) scanCard(ctx context.Context, card core.Card, today core.Date) (bool, error) {
	txs, err := r.storage.ListTransactionsByCard(ctx, card.ID)
	if err != nil {
		return false, fmt.Errorf("list transactions for card %d: %w", card.ID, err)
	}

	rec := billing.Reconcile(card.CutOffDay, card.GracePeriodDays, txs, today)
	if !rec.Net.IsPositive() {
		return false, nil
	}

	due := rec.Statement.PaymentDue
	if !rec.Overdue && today.DaysUntil(due) > r.lookaheadDays {
		return false, nil
	}

	msg := amqp.NewPaymentReminderMessage(card.ID, card.Name, due, rec.Net, rec.Overdue)
	if err := r.publisher.PublishPaymentReminder(ctx, msg); err != nil {
		return false, fmt.Errorf("publish reminder for card %d: %w", card.ID, err)
	}

	slog.InfoContext(ctx, "Payment reminder published",
		applog.FieldCardID, card.ID,
		applog.FieldCardName, card.Name,
		applog.FieldDueDate, due.String(),
		applog.FieldAmount, rec.Net.String(),
		applog.FieldOverdue, rec.Overdue)

	return true, nil
}
