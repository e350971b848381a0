package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"cartera/internal/core"
)

// TransactionSyncMessage is a lightweight pointer to a transaction that needs
// exporting. The worker fetches the full row from the database, so the queue
// never carries amounts.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// PaymentReminderMessage tells a notification consumer that a card statement
// is due soon or already overdue.
type PaymentReminderMessage struct {
	CardID    int64           `json:"card_id"`
	CardName  string          `json:"card_name"`
	DueDate   core.Date       `json:"due_date"`
	AmountDue decimal.Decimal `json:"amount_due"`
	Overdue   bool            `json:"overdue"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewPaymentReminderMessage(cardID int64, cardName string, dueDate core.Date, amountDue decimal.Decimal, overdue bool) *PaymentReminderMessage {
	return &PaymentReminderMessage{
		CardID:    cardID,
		CardName:  cardName,
		DueDate:   dueDate,
		AmountDue: amountDue,
		Overdue:   overdue,
		Timestamp: time.Now(),
	}
}

func (m *PaymentReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentReminderMessageFromJSON(data []byte) (*PaymentReminderMessage, error) {
	var msg PaymentReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
