package projections

import (
	"context"

	"storefront/internal/domain/product"
	"storefront/internal/domain/purchase"
)

// ProductStore interface for catalog queries.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
	List(ctx context.Context, limit int) ([]product.Product, error)
}

// PurchaseStore interface for purchase queries.
type PurchaseStore interface {
	List(ctx context.Context) ([]purchase.Purchase, error)
	ListByEmail(ctx context.Context, email string) ([]purchase.Purchase, error)
}
