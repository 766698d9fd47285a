package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportStore is the read-only sales surface for reporting
type ReportStore interface {
	SalesBetween(ctx context.Context, from, to time.Time) ([]models.SaleReportLine, error)
	DailyRevenue(ctx context.Context, from, to time.Time) ([]models.DailyRevenue, error)
}

// MethodBreakdown is revenue attributed to one payment method
type MethodBreakdown struct {
	Revenue decimal.Decimal `json:"revenue"`
	Percent decimal.Decimal `json:"percent"`
}

// SalesReport summarizes sale lines in a date range
type SalesReport struct {
	Lines       []models.SaleReportLine    `json:"lines"`
	TotalAmount decimal.Decimal            `json:"total_amount"`
	LineCount   int                        `json:"line_count"`
	Average     decimal.Decimal            `json:"average"`
	ByMethod    map[string]MethodBreakdown `json:"by_method"`
}

// ReportService aggregates the sales ledger for display and for external
// read-only consumers. Never writes.
type ReportService struct {
	store  ReportStore
	logger *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store, logger: util.GetLogger()}
}

// SalesReport builds the range report: lines, totals, average and per-method
// revenue split. to is exclusive.
func (rs *ReportService) SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.SalesReport")
	defer span.End()

	lines, err := rs.store.SalesBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		Lines:       lines,
		TotalAmount: decimal.Zero,
		LineCount:   len(lines),
		Average:     decimal.Zero,
		ByMethod:    make(map[string]MethodBreakdown),
	}

	perMethod := make(map[string]decimal.Decimal)
	for _, line := range lines {
		report.TotalAmount = report.TotalAmount.Add(line.LineTotal)
		perMethod[line.PaymentMethod] = perMethod[line.PaymentMethod].Add(line.LineTotal)
	}

	if report.LineCount > 0 {
		report.Average = report.TotalAmount.Div(decimal.NewFromInt(int64(report.LineCount))).Round(2)
	}

	hundred := decimal.NewFromInt(100)
	for method, revenue := range perMethod {
		percent := decimal.Zero
		if report.TotalAmount.IsPositive() {
			percent = revenue.Mul(hundred).Div(report.TotalAmount).Round(1)
		}
		report.ByMethod[method] = MethodBreakdown{Revenue: revenue, Percent: percent}
	}

	return report, nil
}

// DailyRevenue returns revenue summed per calendar day, the aggregation the
// external sales forecaster reads. to is exclusive.
func (rs *ReportService) DailyRevenue(ctx context.Context, from, to time.Time) ([]models.DailyRevenue, error) {
	return rs.store.DailyRevenue(ctx, from, to)
}
