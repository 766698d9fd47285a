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

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		total string
		paid  string
		want  string
	}{
		{"no history", "0", "0", models.ReliabilityNoData},
		{"everything paid", "40", "40", models.ReliabilityDebtFree},
		{"exactly eighty percent", "40", "32", models.ReliabilityReliable},
		{"above eighty percent", "100", "95", models.ReliabilityReliable},
		{"exactly fifty percent", "40", "20", models.ReliabilityStandard},
		{"between fifty and eighty", "100", "65", models.ReliabilityStandard},
		{"below fifty percent", "40", "19.99", models.ReliabilityRisky},
		{"nothing paid", "40", "0", models.ReliabilityRisky},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total := decimal.RequireFromString(tc.total)
			paid := decimal.RequireFromString(tc.paid)
			assert.Equal(t, tc.want, Classify(total, paid))
		})
	}
}

func TestScorePrefersCache(t *testing.T) {
	store := newFakeDebtStore()
	store.addEntry(9, "10.00", false)

	cache := newFakeScoreCache()
	cache.values[9] = models.ReliabilityReliable

	svc := NewReliabilityService(store, cache, time.Minute)

	got, err := svc.Score(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, models.ReliabilityReliable, got, "cached value wins even when the ledger disagrees")
	assert.Equal(t, 0, cache.sets, "a cache hit must not recompute")
}

func TestScoreComputesAndCachesOnMiss(t *testing.T) {
	store := newFakeDebtStore()
	store.addEntry(9, "10.00", true)
	store.addEntry(9, "10.00", false)

	cache := newFakeScoreCache()
	svc := NewReliabilityService(store, cache, time.Minute)

	got, err := svc.Score(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, models.ReliabilityStandard, got)
	assert.Equal(t, models.ReliabilityStandard, cache.values[9])
}

func TestRefreshBypassesCache(t *testing.T) {
	store := newFakeDebtStore()
	id := store.addEntry(9, "10.00", false)

	cache := newFakeScoreCache()
	svc := NewReliabilityService(store, cache, time.Minute)

	got, err := svc.Refresh(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, models.ReliabilityRisky, got)

	// Repayment lands; a stale cached value must not survive a refresh.
	_, _, err = store.MarkDebtPaid(context.Background(), id)
	require.NoError(t, err)

	got, err = svc.Refresh(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, models.ReliabilityDebtFree, got)
	assert.Equal(t, models.ReliabilityDebtFree, cache.values[9])
}

func TestScoreWithoutCache(t *testing.T) {
	store := newFakeDebtStore()
	svc := NewReliabilityService(store, nil, time.Minute)

	got, err := svc.Score(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ReliabilityNoData, got)
}
