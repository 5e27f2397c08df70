package product

import (
	"context"

	domain "storefront/internal/domain/product"
)

// Store persists catalog products.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, limit int) ([]domain.Product, error)
	Save(ctx context.Context, p domain.Product) error
	Count(ctx context.Context) (int, error)
}
