package cart

import (
	"context"

	"pos-service/internal/models"

	"github.com/shopspring/decimal"
)

// Catalog resolves barcodes for line creation
type Catalog interface {
	Lookup(ctx context.Context, barcode string) (*models.Product, error)
}

// Cart accumulates line items for one in-progress sale. Lines are keyed by
// barcode; insertion order is kept for display only. The running total
// equals the sum of line totals after every mutation.
//
// A Cart is driven by a single control flow (one register session); it does
// no locking of its own.
type Cart struct {
	catalog Catalog
	lines   map[string]*models.CartLine
	order   []string
	total   decimal.Decimal
}

// New creates an empty cart backed by the given catalog
func New(catalog Catalog) *Cart {
	return &Cart{
		catalog: catalog,
		lines:   make(map[string]*models.CartLine),
		total:   decimal.Zero,
	}
}

// AddByBarcode resolves the barcode against the catalog and adds one unit.
// An existing line keeps its frozen unit price and gains quantity; a new
// line captures the catalog's current price as its frozen price. On
// models.ErrProductNotFound the cart is left untouched.
func (c *Cart) AddByBarcode(ctx context.Context, barcode string) (*models.CartLine, error) {
	if line, ok := c.lines[barcode]; ok {
		line.Quantity++
		c.total = c.total.Add(line.UnitPrice)
		return line, nil
	}

	product, err := c.catalog.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}

	line := &models.CartLine{
		Barcode:   product.Barcode,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  1,
	}
	c.lines[barcode] = line
	c.order = append(c.order, barcode)
	c.total = c.total.Add(line.UnitPrice)
	return line, nil
}

// RemoveLine drops the entire line for a barcode, all quantity included,
// and subtracts its full contribution from the running total.
func (c *Cart) RemoveLine(barcode string) error {
	line, ok := c.lines[barcode]
	if !ok {
		return models.ErrLineNotFound
	}

	c.total = c.total.Sub(line.LineTotal())
	delete(c.lines, barcode)
	for i, b := range c.order {
		if b == barcode {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear empties the cart. Called only after a confirmed successful
// settlement or an explicit cancel, never implicitly.
func (c *Cart) Clear() {
	c.lines = make(map[string]*models.CartLine)
	c.order = nil
	c.total = decimal.Zero
}

// Empty reports whether the cart has no lines
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Total returns the running total
func (c *Cart) Total() decimal.Decimal {
	return c.total
}

// Lines returns the cart lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	lines := make([]models.CartLine, 0, len(c.order))
	for _, barcode := range c.order {
		lines = append(lines, *c.lines[barcode])
	}
	return lines
}
