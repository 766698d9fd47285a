package service

import (
	"context"
	"fmt"
	"strings"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogAdminStore is the product write surface for catalog maintenance
type CatalogAdminStore interface {
	UpsertProduct(ctx context.Context, product *models.Product) error
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	ApplyPriceIncrease(ctx context.Context, percent, amount decimal.Decimal, brand string) (int64, error)
}

// PriceIncreaseRequest raises prices across the catalog or one brand.
// Exactly one of Percent or Amount must be positive.
type PriceIncreaseRequest struct {
	Percent decimal.Decimal `json:"percent"`
	Amount  decimal.Decimal `json:"amount"`
	Brand   string          `json:"brand"`
}

// CatalogAdminService maintains the product catalog: upserts by barcode and
// bulk repricing. It writes products only; sale and debt ledgers are never
// touched, and outstanding debt keeps its frozen purchase prices.
type CatalogAdminService struct {
	store  CatalogAdminStore
	logger *zap.Logger
}

// NewCatalogAdminService creates a new catalog admin service
func NewCatalogAdminService(store CatalogAdminStore) *CatalogAdminService {
	return &CatalogAdminService{store: store, logger: util.GetLogger()}
}

// SaveProduct inserts or updates a product keyed by barcode
func (cs *CatalogAdminService) SaveProduct(ctx context.Context, product *models.Product) error {
	product.Barcode = strings.TrimSpace(product.Barcode)
	product.Name = strings.TrimSpace(product.Name)
	product.Brand = strings.TrimSpace(product.Brand)

	if product.Barcode == "" || product.Name == "" {
		return fmt.Errorf("barcode and name are required")
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}

	if err := cs.store.UpsertProduct(ctx, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	cs.logger.Info("Product saved",
		zap.String("barcode", product.Barcode),
		zap.String("price", product.Price.StringFixed(2)))
	return nil
}

// Search lists products matching a name query, all products when empty
func (cs *CatalogAdminService) Search(ctx context.Context, query string) ([]models.Product, error) {
	return cs.store.SearchProducts(ctx, strings.TrimSpace(query))
}

// Brands lists the distinct brands present in the catalog
func (cs *CatalogAdminService) Brands(ctx context.Context) ([]string, error) {
	return cs.store.DistinctBrands(ctx)
}

// IncreasePrices applies a percent or fixed-amount raise, optionally limited
// to one brand, as a single set-based update. Returns the number of
// repriced products.
func (cs *CatalogAdminService) IncreasePrices(ctx context.Context, req *PriceIncreaseRequest) (int64, error) {
	if req.Percent.IsPositive() == req.Amount.IsPositive() {
		return 0, fmt.Errorf("exactly one of percent or amount must be positive")
	}

	count, err := cs.store.ApplyPriceIncrease(ctx, req.Percent, req.Amount, strings.TrimSpace(req.Brand))
	if err != nil {
		return 0, err
	}

	cs.logger.Info("Price increase applied",
		zap.String("percent", req.Percent.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("brand", req.Brand),
		zap.Int64("products", count))
	return count, nil
}
