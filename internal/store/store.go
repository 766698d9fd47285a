package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *sqlx.DB
}

// NewStore opens a single long-lived database handle shared by all callers.
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	barcode TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	price NUMERIC(12,2) NOT NULL,
	brand TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS customers (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sales (
	id BIGSERIAL PRIMARY KEY,
	product_id BIGINT NOT NULL REFERENCES products(id),
	quantity INT NOT NULL,
	unit_price NUMERIC(12,2) NOT NULL,
	line_total NUMERIC(12,2) NOT NULL,
	payment_method TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS debts (
	id BIGSERIAL PRIMARY KEY,
	customer_id BIGINT NOT NULL REFERENCES customers(id),
	product_id BIGINT NOT NULL REFERENCES products(id),
	purchase_price NUMERIC(12,2) NOT NULL,
	paid BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS processed_events (
	event_id TEXT PRIMARY KEY,
	event_type TEXT NOT NULL,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the ledger tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// ProductSnapshot returns all products ordered by barcode, the point-in-time
// view one catalog lookup binary-searches over. Lexicographic order, not
// numeric: barcodes are opaque strings.
func (s *Store) ProductSnapshot(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT id, barcode, name, price, brand FROM products ORDER BY barcode")
	return products, err
}

// GetProductByBarcode retrieves a single product by its barcode
func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT id, barcode, name, price, brand FROM products WHERE barcode = $1", barcode)
	if err == sql.ErrNoRows {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchProducts lists products whose name matches the query, all products
// when the query is empty
func (s *Store) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	products := []models.Product{}
	if query == "" {
		err := s.db.SelectContext(ctx, &products,
			"SELECT id, barcode, name, price, brand FROM products ORDER BY name")
		return products, err
	}
	err := s.db.SelectContext(ctx, &products,
		"SELECT id, barcode, name, price, brand FROM products WHERE name ILIKE $1 ORDER BY name",
		"%"+query+"%")
	return products, err
}

// UpsertProduct inserts a product or, when the barcode exists, updates its
// name, price and brand. Returns the stored row.
func (s *Store) UpsertProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (barcode, name, price, brand)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (barcode) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, brand = EXCLUDED.brand
		RETURNING id`

	return s.db.GetContext(ctx, &product.ID, query,
		product.Barcode, product.Name, product.Price, product.Brand)
}

// DistinctBrands lists brands present in the catalog
func (s *Store) DistinctBrands(ctx context.Context) ([]string, error) {
	brands := []string{}
	err := s.db.SelectContext(ctx, &brands,
		"SELECT DISTINCT brand FROM products WHERE brand <> '' ORDER BY brand")
	return brands, err
}

// ApplyPriceIncrease raises product prices in one statement. percent and
// amount are mutually exclusive; brand narrows the update when non-empty.
// Returns the number of repriced products.
func (s *Store) ApplyPriceIncrease(ctx context.Context, percent, amount decimal.Decimal, brand string) (int64, error) {
	var expr string
	var arg decimal.Decimal
	if !percent.IsZero() {
		expr = "price * (1 + $1::numeric / 100)"
		arg = percent
	} else {
		expr = "price + $1::numeric"
		arg = amount
	}

	query := fmt.Sprintf("UPDATE products SET price = ROUND(%s, 2)", expr)
	args := []interface{}{arg}
	if brand != "" {
		query += " WHERE brand = $2"
		args = append(args, brand)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to apply price increase: %w", err)
	}
	return res.RowsAffected()
}

// CreateCustomer creates a new customer
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, phone)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, customer, query, customer.Name, customer.Phone)
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer,
		"SELECT id, name, phone, created_at FROM customers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomersWithDebt lists all customers with their unpaid debt total
func (s *Store) ListCustomersWithDebt(ctx context.Context) ([]models.CustomerDebtSummary, error) {
	customers := []models.CustomerDebtSummary{}
	err := s.db.SelectContext(ctx, &customers, `
		SELECT
			c.id,
			c.name,
			c.phone,
			COALESCE(SUM(CASE WHEN NOT d.paid THEN d.purchase_price ELSE 0 END), 0) AS outstanding
		FROM customers c
		LEFT JOIN debts d ON d.customer_id = c.id
		GROUP BY c.id
		ORDER BY c.name`)
	return customers, err
}
