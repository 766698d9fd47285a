package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types published to the ledger event feed. Consumers are read-only:
// the reliability score refresher and any external forecasting pipeline.
const (
	EventTypeSaleCompleted = "SALE_COMPLETED"
	EventTypeDebtRecorded  = "DEBT_RECORDED"
	EventTypeDebtPaid      = "DEBT_PAID"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleLineData represents one settled cart line in events
type SaleLineData struct {
	Barcode   string          `json:"barcode"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleCompletedEvent published after a settlement commits, any payment method
type SaleCompletedEvent struct {
	BaseEvent
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Lines         []SaleLineData  `json:"lines"`
}

// DebtRecordedEvent published after a debt settlement commits
type DebtRecordedEvent struct {
	BaseEvent
	CustomerID int64           `json:"customer_id"`
	EntryIDs   []int64         `json:"entry_ids"`
	Total      decimal.Decimal `json:"total"`
}

// DebtPaidEvent published when a single debt entry transitions to paid
type DebtPaidEvent struct {
	BaseEvent
	CustomerID int64           `json:"customer_id"`
	EntryID    int64           `json:"entry_id"`
	Amount     decimal.Decimal `json:"amount"`
}
