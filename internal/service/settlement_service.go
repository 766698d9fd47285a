package service

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/cart"
	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementStore is the ledger write surface a settlement needs. The
// concrete store commits everything in one transaction.
type SettlementStore interface {
	CommitSettlement(ctx context.Context, lines []models.CartLine, method string, customerID *int64) (*store.SettlementIDs, error)
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
}

// LedgerEventPublisher feeds read-side consumers after commits succeed
type LedgerEventPublisher interface {
	PublishSaleCompleted(ctx context.Context, event *models.SaleCompletedEvent) error
	PublishDebtRecorded(ctx context.Context, event *models.DebtRecordedEvent) error
}

// SettlementRequest selects the payment channel for one attempt
type SettlementRequest struct {
	Method     string          `json:"method" binding:"required"`
	Tendered   decimal.Decimal `json:"tendered"`
	CustomerID *int64          `json:"customer_id"`
}

// SettlementResult reports a committed settlement
type SettlementResult struct {
	Total     decimal.Decimal `json:"total"`
	Change    decimal.Decimal `json:"change"`
	Method    string          `json:"method"`
	SaleRows  int             `json:"sale_rows"`
	DebtRows  int             `json:"debt_rows"`
}

// SettlementService validates a cart against a payment method and commits
// it atomically. Validation failures never touch storage; a failed commit
// rolls back in full and leaves the cart exactly as it was.
type SettlementService struct {
	store     SettlementStore
	publisher LedgerEventPublisher
	logger    *zap.Logger
}

// NewSettlementService creates a new settlement service
func NewSettlementService(store SettlementStore, publisher LedgerEventPublisher) *SettlementService {
	return &SettlementService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Settle runs one settlement attempt for the cart. On success the cart is
// cleared; on any rejection or failure it is untouched and the attempt may
// be retried.
func (ss *SettlementService) Settle(ctx context.Context, c *cart.Cart, req *SettlementRequest) (*SettlementResult, error) {
	ctx, span := util.StartSpan(ctx, "SettlementService.Settle")
	defer span.End()

	if c.Empty() {
		util.SettlementsRejectedTotal.WithLabelValues("empty_cart").Inc()
		return nil, models.ErrEmptyCart
	}
	if !models.ValidPaymentMethod(req.Method) {
		util.SettlementsRejectedTotal.WithLabelValues("invalid_method").Inc()
		return nil, fmt.Errorf("unknown payment method %q", req.Method)
	}

	total := c.Total()
	change := decimal.Zero

	switch req.Method {
	case models.PaymentMethodCash:
		if req.Tendered.LessThan(total) {
			util.SettlementsRejectedTotal.WithLabelValues("insufficient_payment").Inc()
			return nil, fmt.Errorf("%w: tendered %s, total %s",
				models.ErrInsufficientPayment, req.Tendered.StringFixed(2), total.StringFixed(2))
		}
		change = req.Tendered.Sub(total).Round(2)

	case models.PaymentMethodDebt:
		if req.CustomerID == nil {
			util.SettlementsRejectedTotal.WithLabelValues("no_customer").Inc()
			return nil, models.ErrNoCustomerSelected
		}
		if _, err := ss.store.GetCustomerByID(ctx, *req.CustomerID); err != nil {
			util.SettlementsRejectedTotal.WithLabelValues("no_customer").Inc()
			return nil, fmt.Errorf("%w: customer %d", models.ErrNoCustomerSelected, *req.CustomerID)
		}
	}

	lines := c.Lines()

	start := time.Now()
	ids, err := ss.store.CommitSettlement(ctx, lines, req.Method, req.CustomerID)
	util.SettlementCommitLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.SettlementWriteFailuresTotal.Inc()
		ss.logger.Error("Settlement commit rolled back",
			zap.String("method", req.Method),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrSettlementWriteFailed, err)
	}

	// Commit is durable from here on; the cart may be cleared.
	c.Clear()

	util.SettlementsCommittedTotal.WithLabelValues(req.Method).Inc()
	util.SaleLinesRecordedTotal.Add(float64(len(ids.SaleIDs)))
	util.DebtEntriesRecordedTotal.Add(float64(len(ids.DebtIDs)))

	ss.logger.Info("Settlement committed",
		zap.String("method", req.Method),
		zap.String("total", total.StringFixed(2)),
		zap.Int("sale_rows", len(ids.SaleIDs)),
		zap.Int("debt_rows", len(ids.DebtIDs)))

	ss.publishEvents(ctx, lines, req, total, ids)

	return &SettlementResult{
		Total:    total,
		Change:   change,
		Method:   req.Method,
		SaleRows: len(ids.SaleIDs),
		DebtRows: len(ids.DebtIDs),
	}, nil
}

// publishEvents feeds the read-side topic. Publish failures are logged and
// dropped: the settlement is already committed and must not be failed or
// retried because of them.
func (ss *SettlementService) publishEvents(ctx context.Context, lines []models.CartLine, req *SettlementRequest, total decimal.Decimal, ids *store.SettlementIDs) {
	if ss.publisher == nil {
		return
	}

	eventLines := make([]models.SaleLineData, 0, len(lines))
	for _, line := range lines {
		eventLines = append(eventLines, models.SaleLineData{
			Barcode:   line.Barcode,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal(),
		})
	}

	saleEvent := &models.SaleCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleCompleted,
			Timestamp: time.Now(),
		},
		PaymentMethod: req.Method,
		Total:         total,
		Lines:         eventLines,
	}
	if err := ss.publisher.PublishSaleCompleted(ctx, saleEvent); err != nil {
		ss.logger.Error("Failed to publish SaleCompleted event", zap.Error(err))
	}

	if req.Method != models.PaymentMethodDebt {
		return
	}

	debtEvent := &models.DebtRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeDebtRecorded,
			Timestamp: time.Now(),
		},
		CustomerID: *req.CustomerID,
		EntryIDs:   ids.DebtIDs,
		Total:      total,
	}
	if err := ss.publisher.PublishDebtRecorded(ctx, debtEvent); err != nil {
		ss.logger.Error("Failed to publish DebtRecorded event", zap.Error(err))
	}
}
