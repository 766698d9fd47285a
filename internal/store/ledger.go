package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/shopspring/decimal"
)

// SettlementIDs carries the ledger row ids written by one settlement commit
type SettlementIDs struct {
	SaleIDs []int64
	DebtIDs []int64
}

// CommitSettlement writes the full ledger footprint of one settlement inside
// a single transaction: one sale row per cart line, plus quantity debt rows
// per line when paying by debt. Either all rows persist or none do; any
// failure rolls the whole attempt back.
func (s *Store) CommitSettlement(ctx context.Context, lines []models.CartLine, method string, customerID *int64) (*SettlementIDs, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement tx: %w", err)
	}
	defer tx.Rollback()

	ids := &SettlementIDs{}

	for _, line := range lines {
		var productID int64
		err := tx.GetContext(ctx, &productID,
			"SELECT id FROM products WHERE barcode = $1", line.Barcode)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, line.Barcode)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product %s: %w", line.Barcode, err)
		}

		var saleID int64
		err = tx.GetContext(ctx, &saleID, `
			INSERT INTO sales (product_id, quantity, unit_price, line_total, payment_method)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			productID, line.Quantity, line.UnitPrice, line.LineTotal(), method)
		if err != nil {
			return nil, fmt.Errorf("failed to write sale row: %w", err)
		}
		ids.SaleIDs = append(ids.SaleIDs, saleID)

		if method != models.PaymentMethodDebt {
			continue
		}

		// One debt row per unit, each at the line's frozen price, so every
		// unit can be repaid independently.
		for i := 0; i < line.Quantity; i++ {
			var debtID int64
			err = tx.GetContext(ctx, &debtID, `
				INSERT INTO debts (customer_id, product_id, purchase_price)
				VALUES ($1, $2, $3)
				RETURNING id`,
				*customerID, productID, line.UnitPrice)
			if err != nil {
				return nil, fmt.Errorf("failed to write debt entry: %w", err)
			}
			ids.DebtIDs = append(ids.DebtIDs, debtID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return ids, nil
}

// MarkDebtPaid transitions one debt entry from unpaid to paid. The guarded
// UPDATE makes repeats harmless: a second call on the same entry changes
// nothing and reports models.ErrAlreadyPaid. Returns the entry's customer
// and frozen purchase price on success.
func (s *Store) MarkDebtPaid(ctx context.Context, debtID int64) (customerID int64, amount decimal.Decimal, err error) {
	row := s.db.QueryRowxContext(ctx, `
		UPDATE debts
		SET paid = TRUE
		WHERE id = $1 AND NOT paid
		RETURNING customer_id, purchase_price`, debtID)

	err = row.Scan(&customerID, &amount)
	if err == nil {
		return customerID, amount, nil
	}
	if err != sql.ErrNoRows {
		return 0, decimal.Zero, fmt.Errorf("failed to mark debt paid: %w", err)
	}

	var paid bool
	err = s.db.GetContext(ctx, &paid, "SELECT paid FROM debts WHERE id = $1", debtID)
	if err == sql.ErrNoRows {
		return 0, decimal.Zero, models.ErrDebtNotFound
	}
	if err != nil {
		return 0, decimal.Zero, err
	}
	return 0, decimal.Zero, models.ErrAlreadyPaid
}

// OutstandingBalance returns the unpaid total for a customer together with
// the number of debt entries ever recorded, so "no debt history" and "all
// paid off" stay distinguishable.
func (s *Store) OutstandingBalance(ctx context.Context, customerID int64) (decimal.Decimal, int, error) {
	var result struct {
		Outstanding decimal.Decimal `db:"outstanding"`
		Entries     int             `db:"entries"`
	}
	err := s.db.GetContext(ctx, &result, `
		SELECT
			COALESCE(SUM(CASE WHEN NOT paid THEN purchase_price ELSE 0 END), 0) AS outstanding,
			COUNT(*) AS entries
		FROM debts
		WHERE customer_id = $1`, customerID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return result.Outstanding, result.Entries, nil
}

// DebtTotals returns the lifetime debt total and the paid portion for a
// customer, the two sums the reliability classification is derived from.
func (s *Store) DebtTotals(ctx context.Context, customerID int64) (total, paid decimal.Decimal, err error) {
	var result struct {
		Total decimal.Decimal `db:"total"`
		Paid  decimal.Decimal `db:"paid"`
	}
	err = s.db.GetContext(ctx, &result, `
		SELECT
			COALESCE(SUM(purchase_price), 0) AS total,
			COALESCE(SUM(CASE WHEN paid THEN purchase_price ELSE 0 END), 0) AS paid
		FROM debts
		WHERE customer_id = $1`, customerID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return result.Total, result.Paid, nil
}

// DebtsByCustomer lists a customer's full debt history, newest first. The
// joined current_price is informational; purchase_price is what repayment
// settles.
func (s *Store) DebtsByCustomer(ctx context.Context, customerID int64) ([]models.DebtDetail, error) {
	debts := []models.DebtDetail{}
	err := s.db.SelectContext(ctx, &debts, `
		SELECT
			d.id,
			p.name AS product_name,
			d.purchase_price,
			p.price AS current_price,
			d.paid,
			d.created_at
		FROM debts d
		JOIN products p ON p.id = d.product_id
		WHERE d.customer_id = $1
		ORDER BY d.created_at DESC`, customerID)
	return debts, err
}

// SalesBetween lists sale lines in [from, to), newest first
func (s *Store) SalesBetween(ctx context.Context, from, to time.Time) ([]models.SaleReportLine, error) {
	sales := []models.SaleReportLine{}
	err := s.db.SelectContext(ctx, &sales, `
		SELECT
			s.created_at,
			p.name AS product_name,
			s.quantity,
			s.unit_price,
			s.line_total,
			s.payment_method
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		ORDER BY s.created_at DESC`, from, to)
	return sales, err
}

// DailyRevenue aggregates line totals per calendar day in [from, to)
func (s *Store) DailyRevenue(ctx context.Context, from, to time.Time) ([]models.DailyRevenue, error) {
	revenue := []models.DailyRevenue{}
	err := s.db.SelectContext(ctx, &revenue, `
		SELECT
			DATE(s.created_at) AS day,
			SUM(s.line_total) AS revenue
		FROM sales s
		WHERE s.created_at >= $1 AND s.created_at < $2
		GROUP BY DATE(s.created_at)
		ORDER BY day`, from, to)
	return revenue, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
