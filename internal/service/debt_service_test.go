package service

import (
	"context"
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPaidPublishesEvent(t *testing.T) {
	store := newFakeDebtStore()
	id := store.addEntry(3, "12.50", false)

	publisher := &fakePublisher{}
	svc := NewDebtService(store, publisher)

	require.NoError(t, svc.MarkPaid(context.Background(), id))

	assert.True(t, store.Entries[id].Paid)
	require.Len(t, publisher.PaidEvents, 1)
	event := publisher.PaidEvents[0]
	assert.Equal(t, models.EventTypeDebtPaid, event.EventType)
	assert.Equal(t, int64(3), event.CustomerID)
	assert.Equal(t, id, event.EntryID)
	assert.Equal(t, "12.50", event.Amount.StringFixed(2))
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	store := newFakeDebtStore()
	id := store.addEntry(3, "12.50", false)

	publisher := &fakePublisher{}
	svc := NewDebtService(store, publisher)

	require.NoError(t, svc.MarkPaid(context.Background(), id))
	err := svc.MarkPaid(context.Background(), id)
	require.ErrorIs(t, err, models.ErrAlreadyPaid)

	assert.True(t, store.Entries[id].Paid)
	assert.Len(t, publisher.PaidEvents, 1, "the repeat must not publish again")
}

func TestMarkPaidUnknownEntry(t *testing.T) {
	svc := NewDebtService(newFakeDebtStore(), nil)
	err := svc.MarkPaid(context.Background(), 999)
	require.ErrorIs(t, err, models.ErrDebtNotFound)
}

func TestOutstandingBalanceDistinguishesSettledFromEmpty(t *testing.T) {
	store := newFakeDebtStore()
	store.addEntry(1, "10.00", true)
	store.addEntry(1, "10.00", true)

	svc := NewDebtService(store, nil)

	// Customer 1 paid everything off: zero outstanding but a real history.
	settled, err := svc.OutstandingBalance(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, settled.Outstanding.IsZero())
	assert.Equal(t, 2, settled.EntryCount)

	// Customer 2 never had debt at all.
	empty, err := svc.OutstandingBalance(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, empty.Outstanding.IsZero())
	assert.Equal(t, 0, empty.EntryCount)
}

func TestOutstandingBalanceSumsUnpaidOnly(t *testing.T) {
	store := newFakeDebtStore()
	store.addEntry(5, "7.25", false)
	store.addEntry(5, "7.25", false)
	store.addEntry(5, "3.00", true)

	svc := NewDebtService(store, nil)
	balance, err := svc.OutstandingBalance(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "14.50", balance.Outstanding.StringFixed(2))
	assert.Equal(t, 3, balance.EntryCount)
}

func TestAddCustomerValidatesName(t *testing.T) {
	svc := NewDebtService(newFakeDebtStore(), nil)

	_, err := svc.AddCustomer(context.Background(), "   ", "555-1234")
	require.Error(t, err)

	customer, err := svc.AddCustomer(context.Background(), "  Ana  ", " 555-1234 ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", customer.Name)
	assert.Equal(t, "555-1234", customer.Phone)
	assert.NotZero(t, customer.ID)
}
