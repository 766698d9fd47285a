package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry, identified by barcode
type Product struct {
	ID      int64           `db:"id" json:"id"`
	Barcode string          `db:"barcode" json:"barcode"`
	Name    string          `db:"name" json:"name"`
	Price   decimal.Decimal `db:"price" json:"price"`
	Brand   string          `db:"brand" json:"brand"`
}

// Customer represents a debt-ledger customer
type Customer struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CartLine is one distinct product in an in-progress sale. UnitPrice is
// captured when the line is created and never re-read from the catalog, so
// the price quoted at scan time is honored through settlement.
type CartLine struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns UnitPrice * Quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SaleRecord is one append-only ledger row per cart line per settlement
type SaleRecord struct {
	ID            int64           `db:"id" json:"id"`
	ProductID     int64           `db:"product_id" json:"product_id"`
	Quantity      int             `db:"quantity" json:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal     decimal.Decimal `db:"line_total" json:"line_total"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// DebtEntry is one unit of product sold on credit, individually payable.
// A debt settlement of a line with quantity q writes q of these.
type DebtEntry struct {
	ID            int64           `db:"id" json:"id"`
	CustomerID    int64           `db:"customer_id" json:"customer_id"`
	ProductID     int64           `db:"product_id" json:"product_id"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	Paid          bool            `db:"paid" json:"paid"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// DebtDetail is a DebtEntry joined with its product for display. CurrentPrice
// is the live catalog price, informational only; PurchasePrice stays
// authoritative for repayment.
type DebtDetail struct {
	ID            int64           `db:"id" json:"id"`
	ProductName   string          `db:"product_name" json:"product_name"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	CurrentPrice  decimal.Decimal `db:"current_price" json:"current_price"`
	Paid          bool            `db:"paid" json:"paid"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// CustomerDebtSummary is a customer with their aggregate unpaid debt
type CustomerDebtSummary struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Phone       string          `db:"phone" json:"phone"`
	Outstanding decimal.Decimal `db:"outstanding" json:"outstanding"`
}

// SaleReportLine is a sale row joined with its product name for reporting
type SaleReportLine struct {
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	ProductName   string          `db:"product_name" json:"product_name"`
	Quantity      int             `db:"quantity" json:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal     decimal.Decimal `db:"line_total" json:"line_total"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
}

// DailyRevenue is revenue aggregated per calendar day. This is the read
// surface external consumers (sales forecasting) work from.
type DailyRevenue struct {
	Day     time.Time       `db:"day" json:"day"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
}

// Payment methods
const (
	PaymentMethodCash = "CASH"
	PaymentMethodCard = "CARD"
	PaymentMethodDebt = "DEBT"
)

// ValidPaymentMethod reports whether m is one of the three payment channels.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodDebt:
		return true
	}
	return false
}

// Reliability classifications derived from a customer's full debt history
const (
	ReliabilityNoData   = "NO_DATA"
	ReliabilityDebtFree = "DEBT_FREE"
	ReliabilityReliable = "RELIABLE"
	ReliabilityStandard = "STANDARD"
	ReliabilityRisky    = "RISKY"
)

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
