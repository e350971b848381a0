package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"

	FieldCardID        = "card_id"
	FieldCardName      = "card_name"
	FieldTransactionID = "transaction_id"
	FieldAmount        = "amount"
	FieldDueDate       = "due_date"
	FieldOverdue       = "overdue"
)

// Components defines standard component names, one per binary.
const (
	ComponentApp      = "app"
	ComponentWorker   = "worker"
	ComponentReminder = "reminder"
)
