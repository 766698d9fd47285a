package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"

	"github.com/shopspring/decimal"
)

// fakeCatalog backs test carts
type fakeCatalog struct {
	products map[string]models.Product
}

func (f *fakeCatalog) Lookup(_ context.Context, barcode string) (*models.Product, error) {
	p, ok := f.products[barcode]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &p, nil
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]models.Product{
		"100": {ID: 1, Barcode: "100", Name: "Bread", Price: decimal.RequireFromString("5.00")},
		"200": {ID: 2, Barcode: "200", Name: "Milk", Price: decimal.RequireFromString("20.00")},
	}}
}

// fakeLedger implements SettlementStore. CommitErr simulates a write failure
// mid-commit; nothing is recorded in that case, mirroring the rollback.
type fakeLedger struct {
	CommitErr error
	Customers map[int64]models.Customer

	CommittedLines  []models.CartLine
	CommittedMethod string
	CommittedCustID *int64
	CommitCalls     int
}

func (f *fakeLedger) CommitSettlement(_ context.Context, lines []models.CartLine, method string, customerID *int64) (*store.SettlementIDs, error) {
	f.CommitCalls++
	if f.CommitErr != nil {
		return nil, f.CommitErr
	}

	f.CommittedLines = lines
	f.CommittedMethod = method
	f.CommittedCustID = customerID

	ids := &store.SettlementIDs{}
	var next int64 = 1
	for _, line := range lines {
		ids.SaleIDs = append(ids.SaleIDs, next)
		next++
		if method == models.PaymentMethodDebt {
			for i := 0; i < line.Quantity; i++ {
				ids.DebtIDs = append(ids.DebtIDs, next)
				next++
			}
		}
	}
	return ids, nil
}

func (f *fakeLedger) GetCustomerByID(_ context.Context, id int64) (*models.Customer, error) {
	c, ok := f.Customers[id]
	if !ok {
		return nil, models.ErrCustomerNotFound
	}
	return &c, nil
}

// fakePublisher records published events
type fakePublisher struct {
	SaleEvents []*models.SaleCompletedEvent
	DebtEvents []*models.DebtRecordedEvent
	PaidEvents []*models.DebtPaidEvent
}

func (f *fakePublisher) PublishSaleCompleted(_ context.Context, e *models.SaleCompletedEvent) error {
	f.SaleEvents = append(f.SaleEvents, e)
	return nil
}

func (f *fakePublisher) PublishDebtRecorded(_ context.Context, e *models.DebtRecordedEvent) error {
	f.DebtEvents = append(f.DebtEvents, e)
	return nil
}

func (f *fakePublisher) PublishDebtPaid(_ context.Context, e *models.DebtPaidEvent) error {
	f.PaidEvents = append(f.PaidEvents, e)
	return nil
}

// fakeDebtEntry is one per-unit debt row in the fake debt store
type fakeDebtEntry struct {
	CustomerID int64
	Price      decimal.Decimal
	Paid       bool
}

// fakeDebtStore implements DebtStore over an in-memory map
type fakeDebtStore struct {
	Entries   map[int64]*fakeDebtEntry
	Customers map[int64]models.Customer
	NextID    int64
}

func newFakeDebtStore() *fakeDebtStore {
	return &fakeDebtStore{
		Entries:   make(map[int64]*fakeDebtEntry),
		Customers: make(map[int64]models.Customer),
		NextID:    1,
	}
}

func (f *fakeDebtStore) addEntry(customerID int64, price string, paid bool) int64 {
	id := f.NextID
	f.NextID++
	f.Entries[id] = &fakeDebtEntry{
		CustomerID: customerID,
		Price:      decimal.RequireFromString(price),
		Paid:       paid,
	}
	return id
}

func (f *fakeDebtStore) MarkDebtPaid(_ context.Context, debtID int64) (int64, decimal.Decimal, error) {
	entry, ok := f.Entries[debtID]
	if !ok {
		return 0, decimal.Zero, models.ErrDebtNotFound
	}
	if entry.Paid {
		return 0, decimal.Zero, models.ErrAlreadyPaid
	}
	entry.Paid = true
	return entry.CustomerID, entry.Price, nil
}

func (f *fakeDebtStore) OutstandingBalance(_ context.Context, customerID int64) (decimal.Decimal, int, error) {
	sum := decimal.Zero
	count := 0
	for _, entry := range f.Entries {
		if entry.CustomerID != customerID {
			continue
		}
		count++
		if !entry.Paid {
			sum = sum.Add(entry.Price)
		}
	}
	return sum, count, nil
}

func (f *fakeDebtStore) DebtsByCustomer(_ context.Context, customerID int64) ([]models.DebtDetail, error) {
	debts := []models.DebtDetail{}
	for id, entry := range f.Entries {
		if entry.CustomerID == customerID {
			debts = append(debts, models.DebtDetail{
				ID:            id,
				PurchasePrice: entry.Price,
				Paid:          entry.Paid,
			})
		}
	}
	return debts, nil
}

func (f *fakeDebtStore) CreateCustomer(_ context.Context, customer *models.Customer) error {
	customer.ID = f.NextID
	f.NextID++
	customer.CreatedAt = time.Now()
	f.Customers[customer.ID] = *customer
	return nil
}

func (f *fakeDebtStore) ListCustomersWithDebt(_ context.Context) ([]models.CustomerDebtSummary, error) {
	summaries := []models.CustomerDebtSummary{}
	for id, c := range f.Customers {
		outstanding, _, _ := f.OutstandingBalance(context.Background(), id)
		summaries = append(summaries, models.CustomerDebtSummary{
			ID: id, Name: c.Name, Phone: c.Phone, Outstanding: outstanding,
		})
	}
	return summaries, nil
}

// DebtTotals lets the fake double as a ReliabilityStore
func (f *fakeDebtStore) DebtTotals(_ context.Context, customerID int64) (decimal.Decimal, decimal.Decimal, error) {
	total, paid := decimal.Zero, decimal.Zero
	for _, entry := range f.Entries {
		if entry.CustomerID != customerID {
			continue
		}
		total = total.Add(entry.Price)
		if entry.Paid {
			paid = paid.Add(entry.Price)
		}
	}
	return total, paid, nil
}

// fakeScoreCache implements ScoreCache over a map
type fakeScoreCache struct {
	values map[int64]string
	sets   int
}

func newFakeScoreCache() *fakeScoreCache {
	return &fakeScoreCache{values: make(map[int64]string)}
}

func (f *fakeScoreCache) GetScore(_ context.Context, customerID int64) (string, error) {
	return f.values[customerID], nil
}

func (f *fakeScoreCache) SetScore(_ context.Context, customerID int64, classification string, _ time.Duration) error {
	f.sets++
	f.values[customerID] = classification
	return nil
}

// fakeReportStore implements ReportStore with canned lines
type fakeReportStore struct {
	lines   []models.SaleReportLine
	daily   []models.DailyRevenue
	gotFrom time.Time
	gotTo   time.Time
}

func (f *fakeReportStore) SalesBetween(_ context.Context, from, to time.Time) ([]models.SaleReportLine, error) {
	f.gotFrom, f.gotTo = from, to
	return f.lines, nil
}

func (f *fakeReportStore) DailyRevenue(_ context.Context, from, to time.Time) ([]models.DailyRevenue, error) {
	f.gotFrom, f.gotTo = from, to
	return f.daily, nil
}
