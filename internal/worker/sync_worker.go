package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cartera/internal/amqp"
	"cartera/internal/core"
	"cartera/internal/export"
	applog "cartera/internal/log"
)

// SyncStore is the slice of the repository the sync worker needs.
type SyncStore interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	GetCard(ctx context.Context, id int64) (core.Card, error)
	PendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker exports stored transactions to the configured backend. It serves
// both paths: AMQP deliveries for the steady state, and a periodic sweep of
// the pending flag to catch anything published while the broker was down.
type SyncWorker struct {
	storage  SyncStore
	appender export.TransactionAppender
}

func NewSyncWorker(storage SyncStore, appender export.TransactionAppender) *SyncWorker {
	return &SyncWorker{
		storage:  storage,
		appender: appender,
	}
}

// HandleSyncMessage exports the transaction a queue message points at.
// A failed export is recorded on the row and returned so the delivery is
// requeued.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	return w.export(ctx, msg.ID)
}

func (w *SyncWorker) export(ctx context.Context, id int64) error {
	tx, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", id, err)
	}

	card, err := w.storage.GetCard(ctx, tx.CardID)
	if err != nil {
		return fmt.Errorf("load card %d: %w", tx.CardID, err)
	}

	ref, err := w.appender.AppendTransaction(ctx, card, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record sync error",
				applog.FieldTransactionID, id, applog.FieldError, markErr)
		}
		return fmt.Errorf("append transaction %d: %w", id, err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction %d synced: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		applog.FieldTransactionID, id,
		applog.FieldCardID, tx.CardID,
		"row_ref", ref)

	return nil
}

// ProcessPending sweeps up to batchSize unexported transactions and returns
// how many were exported. Individual failures are logged and skipped so one
// bad row never blocks the batch.
func (w *SyncWorker) ProcessPending(ctx context.Context, batchSize int) (int, error) {
	pending, err := w.storage.PendingSyncTransactions(ctx, batchSize)
	if err != nil {
		return 0, fmt.Errorf("load pending transactions: %w", err)
	}

	exported := 0
	for _, tx := range pending {
		if ctx.Err() != nil {
			return exported, ctx.Err()
		}
		if err := w.export(ctx, tx.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction",
				applog.FieldTransactionID, tx.ID, applog.FieldError, err)
			continue
		}
		exported++
	}
	return exported, nil
}

// RunPendingSweep runs ProcessPending on a fixed interval until the context
// is cancelled.
func (w *SyncWorker) RunPendingSweep(ctx context.Context, interval time.Duration, batchSize int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Pending sweep started",
		"interval", interval,
		"batch_size", batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Pending sweep stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			n, err := w.ProcessPending(ctx, batchSize)
			if err != nil {
				slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.InfoContext(ctx, "Pending sweep exported transactions", "count", n)
			}
		}
	}
}
