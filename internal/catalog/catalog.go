package catalog

import (
	"context"
	"sort"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// SnapshotStore supplies the ordered-by-barcode product view one lookup
// searches over.
type SnapshotStore interface {
	ProductSnapshot(ctx context.Context) ([]models.Product, error)
}

// ProductCatalog resolves barcodes to products. Every lookup re-reads a
// fresh snapshot through the injected store handle; concurrent catalog
// writes may be visible between calls but never within one. This is a
// deliberate re-fetch-per-call policy, not a cache.
type ProductCatalog struct {
	store  SnapshotStore
	logger *zap.Logger
}

// NewProductCatalog creates a new product catalog
func NewProductCatalog(store SnapshotStore) *ProductCatalog {
	return &ProductCatalog{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Lookup resolves a barcode to the unique matching product via binary search
// over the snapshot. Barcodes compare as strings, not numbers; only exact
// matches count. Returns models.ErrProductNotFound when no product matches.
func (pc *ProductCatalog) Lookup(ctx context.Context, barcode string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductCatalog.Lookup")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CatalogLookupLatency.Observe(time.Since(start).Seconds())
	}()

	snapshot, err := pc.store.ProductSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	i := sort.Search(len(snapshot), func(i int) bool {
		return snapshot[i].Barcode >= barcode
	})
	if i < len(snapshot) && snapshot[i].Barcode == barcode {
		product := snapshot[i]
		return &product, nil
	}

	util.CatalogLookupMissesTotal.Inc()
	pc.logger.Debug("Barcode not in catalog", zap.String("barcode", barcode))
	return nil, models.ErrProductNotFound
}
