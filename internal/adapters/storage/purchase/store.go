package purchase

import (
	"context"

	domain "storefront/internal/domain/purchase"
)

// Store persists purchases and the stock movement they cause.
type Store interface {
	Record(ctx context.Context, p domain.Purchase) error
	List(ctx context.Context) ([]domain.Purchase, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Purchase, error)
}
