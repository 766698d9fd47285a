package service

import (
	"context"
	"testing"

	"pos-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminStore struct {
	saved       []models.Product
	gotPercent  decimal.Decimal
	gotAmount   decimal.Decimal
	gotBrand    string
	repriceRows int64
}

func (f *fakeAdminStore) UpsertProduct(_ context.Context, product *models.Product) error {
	f.saved = append(f.saved, *product)
	return nil
}

func (f *fakeAdminStore) SearchProducts(_ context.Context, _ string) ([]models.Product, error) {
	return f.saved, nil
}

func (f *fakeAdminStore) DistinctBrands(_ context.Context) ([]string, error) {
	return []string{"Acme"}, nil
}

func (f *fakeAdminStore) ApplyPriceIncrease(_ context.Context, percent, amount decimal.Decimal, brand string) (int64, error) {
	f.gotPercent, f.gotAmount, f.gotBrand = percent, amount, brand
	return f.repriceRows, nil
}

func TestSaveProductValidation(t *testing.T) {
	store := &fakeAdminStore{}
	svc := NewCatalogAdminService(store)

	err := svc.SaveProduct(context.Background(), &models.Product{Name: "Bread"})
	require.Error(t, err, "barcode is required")

	err = svc.SaveProduct(context.Background(), &models.Product{
		Barcode: "100",
		Name:    "Bread",
		Price:   decimal.RequireFromString("-1.00"),
	})
	require.Error(t, err, "negative price rejected")

	err = svc.SaveProduct(context.Background(), &models.Product{
		Barcode: " 100 ",
		Name:    " Bread ",
		Price:   decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "100", store.saved[0].Barcode)
	assert.Equal(t, "Bread", store.saved[0].Name)
}

func TestIncreasePricesRequiresExactlyOneMode(t *testing.T) {
	svc := NewCatalogAdminService(&fakeAdminStore{})

	_, err := svc.IncreasePrices(context.Background(), &PriceIncreaseRequest{})
	require.Error(t, err, "neither mode set")

	_, err = svc.IncreasePrices(context.Background(), &PriceIncreaseRequest{
		Percent: decimal.RequireFromString("10"),
		Amount:  decimal.RequireFromString("0.50"),
	})
	require.Error(t, err, "both modes set")
}

func TestIncreasePricesPassesThrough(t *testing.T) {
	store := &fakeAdminStore{repriceRows: 12}
	svc := NewCatalogAdminService(store)

	count, err := svc.IncreasePrices(context.Background(), &PriceIncreaseRequest{
		Percent: decimal.RequireFromString("10"),
		Brand:   " Acme ",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.Equal(t, "10", store.gotPercent.String())
	assert.True(t, store.gotAmount.IsZero())
	assert.Equal(t, "Acme", store.gotBrand)
}
