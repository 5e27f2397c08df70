package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/adapters/storage"
	domain "storefront/internal/domain/product"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new product SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const selectProduct = `SELECT id, name, category, price, stock, image_url, description, created_at FROM product`

// GetByID retrieves a Product by its ID.
// PRE: id is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Product, error) {
	row := s.db.QueryRowContext(ctx, selectProduct+" WHERE id = ?", id)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

// List returns products in insertion order. A limit <= 0 returns all products.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Product, error) {
	query := selectProduct + " ORDER BY created_at, rowid"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Save persists a Product (insert or update).
// PRE: p has been validated
// POST: Product is persisted
func (s *SQLiteStore) Save(ctx context.Context, p domain.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO product (id, name, category, price, stock, image_url, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, category=excluded.category, price=excluded.price, stock=excluded.stock,
		   image_url=excluded.image_url, description=excluded.description`,
		p.ID, p.Name, p.Category, p.Price, p.Stock,
		nullStr(p.ImageURL), nullStr(p.Description), p.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// Count returns the number of products in the catalog.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM product`).Scan(&n)
	return n, err
}

func scanProduct(scan func(dest ...any) error) (domain.Product, error) {
	var p domain.Product
	var imageURL, description sql.NullString
	var createdAt string
	if err := scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &imageURL, &description, &createdAt); err != nil {
		return domain.Product{}, err
	}
	p.ImageURL = imageURL.String
	p.Description = description.String
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return p, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
