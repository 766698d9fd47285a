package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DebtStore is the debt-ledger surface the service works against
type DebtStore interface {
	MarkDebtPaid(ctx context.Context, debtID int64) (customerID int64, amount decimal.Decimal, err error)
	OutstandingBalance(ctx context.Context, customerID int64) (decimal.Decimal, int, error)
	DebtsByCustomer(ctx context.Context, customerID int64) ([]models.DebtDetail, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	ListCustomersWithDebt(ctx context.Context) ([]models.CustomerDebtSummary, error)
}

// DebtPaidPublisher announces repayments to read-side consumers
type DebtPaidPublisher interface {
	PublishDebtPaid(ctx context.Context, event *models.DebtPaidEvent) error
}

// Balance is a customer's outstanding debt. EntryCount covers the whole
// history, so zero outstanding with entries means fully settled while zero
// entries means no debt was ever recorded.
type Balance struct {
	Outstanding decimal.Decimal `json:"outstanding"`
	EntryCount  int             `json:"entry_count"`
}

// DebtService tracks per-unit debt entries and their repayment. Entries are
// never deleted; history stays available for auditing and scoring.
type DebtService struct {
	store     DebtStore
	publisher DebtPaidPublisher
	logger    *zap.Logger
}

// NewDebtService creates a new debt service
func NewDebtService(store DebtStore, publisher DebtPaidPublisher) *DebtService {
	return &DebtService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// MarkPaid transitions one debt entry to paid. Repeats are harmless: the
// second call changes nothing and surfaces models.ErrAlreadyPaid.
func (ds *DebtService) MarkPaid(ctx context.Context, debtID int64) error {
	ctx, span := util.StartSpan(ctx, "DebtService.MarkPaid")
	defer span.End()

	customerID, amount, err := ds.store.MarkDebtPaid(ctx, debtID)
	if errors.Is(err, models.ErrAlreadyPaid) {
		util.DebtRepaymentsDuplicateTotal.Inc()
		ds.logger.Info("Repayment on already-paid entry", zap.Int64("debt_id", debtID))
		return err
	}
	if err != nil {
		return err
	}

	util.DebtRepaymentsTotal.Inc()
	ds.logger.Info("Debt entry paid",
		zap.Int64("debt_id", debtID),
		zap.Int64("customer_id", customerID),
		zap.String("amount", amount.StringFixed(2)))

	if ds.publisher != nil {
		event := &models.DebtPaidEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeDebtPaid,
				Timestamp: time.Now(),
			},
			CustomerID: customerID,
			EntryID:    debtID,
			Amount:     amount,
		}
		if err := ds.publisher.PublishDebtPaid(ctx, event); err != nil {
			ds.logger.Error("Failed to publish DebtPaid event", zap.Error(err))
		}
	}
	return nil
}

// OutstandingBalance sums the unpaid entries for a customer
func (ds *DebtService) OutstandingBalance(ctx context.Context, customerID int64) (*Balance, error) {
	outstanding, entries, err := ds.store.OutstandingBalance(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &Balance{Outstanding: outstanding, EntryCount: entries}, nil
}

// CustomerDebts lists a customer's full debt history
func (ds *DebtService) CustomerDebts(ctx context.Context, customerID int64) ([]models.DebtDetail, error) {
	return ds.store.DebtsByCustomer(ctx, customerID)
}

// AddCustomer registers a new debt-ledger customer
func (ds *DebtService) AddCustomer(ctx context.Context, name, phone string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("customer name is required")
	}

	customer := &models.Customer{Name: name, Phone: strings.TrimSpace(phone)}
	if err := ds.store.CreateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	ds.logger.Info("Customer created", zap.Int64("customer_id", customer.ID))
	return customer, nil
}

// ListCustomers lists customers with their outstanding totals
func (ds *DebtService) ListCustomers(ctx context.Context) ([]models.CustomerDebtSummary, error) {
	return ds.store.ListCustomersWithDebt(ctx)
}
