package purchase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/adapters/storage"
	productDomain "storefront/internal/domain/product"
	domain "storefront/internal/domain/purchase"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new purchase SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Record takes one unit of stock and inserts the purchase in a single transaction.
// PRE: p has been validated
// POST: Stock decremented and purchase inserted, or nothing changed and
// productDomain.ErrOutOfStock / productDomain.ErrNotFound is returned
func (s *SQLiteStore) Record(ctx context.Context, p domain.Purchase) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE product SET stock = stock - 1 WHERE id = ? AND stock > 0`, p.ProductID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM product WHERE id = ?`, p.ProductID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return productDomain.ErrNotFound
		}
		return productDomain.ErrOutOfStock
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO purchase (id, buyer_name, cedula, email, phone, product_id, total_price,
		                       payment_method, card_brand, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.BuyerName, p.Cedula, p.Email, nullStr(p.Phone), p.ProductID, p.TotalPrice,
		p.PaymentMethod, nullStr(p.CardBrand), p.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return tx.Commit()
}

const selectPurchase = `SELECT pu.id, pu.buyer_name, pu.cedula, pu.email, pu.phone, pu.product_id,
	       COALESCE(pr.name, ''), pu.total_price, pu.payment_method, pu.card_brand, pu.created_at
	FROM purchase pu LEFT JOIN product pr ON pr.id = pu.product_id`

// List returns every purchase, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Purchase, error) {
	return s.query(ctx, selectPurchase+" ORDER BY pu.created_at DESC")
}

// ListByEmail returns the purchases made with the given email, newest first.
// PRE: email is non-empty
func (s *SQLiteStore) ListByEmail(ctx context.Context, email string) ([]domain.Purchase, error) {
	return s.query(ctx, selectPurchase+" WHERE pu.email = ? ORDER BY pu.created_at DESC", email)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Purchase, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		var phone, cardBrand sql.NullString
		var createdAt string
		if err := rows.Scan(&p.ID, &p.BuyerName, &p.Cedula, &p.Email, &phone, &p.ProductID,
			&p.ProductName, &p.TotalPrice, &p.PaymentMethod, &cardBrand, &createdAt); err != nil {
			return nil, err
		}
		p.Phone = phone.String
		p.CardBrand = cardBrand.String
		p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
