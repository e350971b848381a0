package export

import (
	"context"

	"cartera/internal/core"
)

// TransactionAppender is the outbound port for exporting stored transactions.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, card core.Card, tx core.Transaction) (rowRef string, err error)
}
