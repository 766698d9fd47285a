package service

import (
	"context"
	"testing"
	"time"

	"pos-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportLine(method, total string) models.SaleReportLine {
	return models.SaleReportLine{
		PaymentMethod: method,
		LineTotal:     decimal.RequireFromString(total),
	}
}

func TestSalesReportTotals(t *testing.T) {
	store := &fakeReportStore{lines: []models.SaleReportLine{
		reportLine(models.PaymentMethodCash, "60.00"),
		reportLine(models.PaymentMethodCash, "15.00"),
		reportLine(models.PaymentMethodDebt, "25.00"),
	}}
	svc := NewReportService(store)

	report, err := svc.SalesReport(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 3, report.LineCount)
	assert.Equal(t, "100.00", report.TotalAmount.StringFixed(2))
	assert.Equal(t, "33.33", report.Average.StringFixed(2))

	cash := report.ByMethod[models.PaymentMethodCash]
	assert.Equal(t, "75.00", cash.Revenue.StringFixed(2))
	assert.Equal(t, "75.0", cash.Percent.StringFixed(1))

	debt := report.ByMethod[models.PaymentMethodDebt]
	assert.Equal(t, "25.00", debt.Revenue.StringFixed(2))
	assert.Equal(t, "25.0", debt.Percent.StringFixed(1))
}

func TestSalesReportEmptyRange(t *testing.T) {
	svc := NewReportService(&fakeReportStore{})

	report, err := svc.SalesReport(context.Background(), time.Now(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, report.LineCount)
	assert.True(t, report.TotalAmount.IsZero())
	assert.True(t, report.Average.IsZero())
	assert.Empty(t, report.ByMethod)
}

func TestDailyRevenuePassesRangeThrough(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	store := &fakeReportStore{daily: []models.DailyRevenue{
		{Day: day, Revenue: decimal.RequireFromString("120.00")},
	}}
	svc := NewReportService(store)

	from := day
	to := day.AddDate(0, 0, 2)
	daily, err := svc.DailyRevenue(context.Background(), from, to)
	require.NoError(t, err)

	require.Len(t, daily, 1)
	assert.Equal(t, "120.00", daily[0].Revenue.StringFixed(2))
	assert.Equal(t, from, store.gotFrom)
	assert.Equal(t, to, store.gotTo)
}
