package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Tier boundaries are inclusive: exactly 0.8 is reliable, exactly 0.5 is
// standard.
var (
	reliableThreshold = decimal.New(8, -1)
	standardThreshold = decimal.New(5, -1)
)

// ReliabilityStore supplies the lifetime debt sums for a customer
type ReliabilityStore interface {
	DebtTotals(ctx context.Context, customerID int64) (total, paid decimal.Decimal, err error)
}

// ScoreCache holds computed classifications between debt changes
type ScoreCache interface {
	GetScore(ctx context.Context, customerID int64) (string, error)
	SetScore(ctx context.Context, customerID int64, classification string, ttl time.Duration) error
}

// ReliabilityService classifies a customer's payment behavior from the full
// debt history, paid and unpaid alike. Pure read; safe to run alongside
// settlements.
type ReliabilityService struct {
	store    ReliabilityStore
	cache    ScoreCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewReliabilityService creates a new reliability service
func NewReliabilityService(store ReliabilityStore, cache ScoreCache, cacheTTL time.Duration) *ReliabilityService {
	return &ReliabilityService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// Classify maps lifetime total and paid sums to a classification. A customer
// with no debt history is "no data", which is not the same as debt-free.
func Classify(total, paid decimal.Decimal) string {
	if total.IsZero() {
		return models.ReliabilityNoData
	}
	if paid.Equal(total) {
		return models.ReliabilityDebtFree
	}

	ratio := paid.Div(total)
	switch {
	case ratio.GreaterThanOrEqual(reliableThreshold):
		return models.ReliabilityReliable
	case ratio.GreaterThanOrEqual(standardThreshold):
		return models.ReliabilityStandard
	default:
		return models.ReliabilityRisky
	}
}

// Score returns the classification for a customer, consulting the cache
// first. Cache errors fall through to a fresh computation.
func (rs *ReliabilityService) Score(ctx context.Context, customerID int64) (string, error) {
	ctx, span := util.StartSpan(ctx, "ReliabilityService.Score")
	defer span.End()

	if rs.cache != nil {
		cached, err := rs.cache.GetScore(ctx, customerID)
		if err != nil {
			rs.logger.Warn("Score cache read failed", zap.Error(err))
		} else if cached != "" {
			util.ScoreComputationsTotal.WithLabelValues("cache").Inc()
			return cached, nil
		}
	}

	return rs.Refresh(ctx, customerID)
}

// Refresh recomputes a customer's classification from the ledger and
// re-caches it, bypassing any cached value
func (rs *ReliabilityService) Refresh(ctx context.Context, customerID int64) (string, error) {
	total, paid, err := rs.store.DebtTotals(ctx, customerID)
	if err != nil {
		return "", err
	}

	classification := Classify(total, paid)
	util.ScoreComputationsTotal.WithLabelValues("ledger").Inc()

	if rs.cache != nil {
		if err := rs.cache.SetScore(ctx, customerID, classification, rs.cacheTTL); err != nil {
			rs.logger.Warn("Score cache write failed", zap.Error(err))
		}
	}
	return classification, nil
}
