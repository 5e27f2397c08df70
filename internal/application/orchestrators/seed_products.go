package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/domain/product"
)

// ProductStoreForSeed defines the store interface needed by SeedProducts.
type ProductStoreForSeed interface {
	Save(ctx context.Context, p product.Product) error
	Count(ctx context.Context) (int, error)
}

// SeedProductsDeps holds dependencies for SeedProducts.
type SeedProductsDeps struct {
	ProductStore ProductStoreForSeed
	GenerateID   func() string
	Now          func() time.Time
}

// defaultCatalog is the launch catalog.
var defaultCatalog = []product.Product{
	{Name: "NVIDIA RTX 4090", Category: "GPU", Price: 1999.99,
		ImageURL:    "https://m.media-amazon.com/images/I/7120GgCjCIL._AC_SL1500_.jpg",
		Description: "The most powerful graphics card in the world."},
	{Name: "Intel Core i9-14900K", Category: "CPU", Price: 589.99,
		ImageURL:    "https://m.media-amazon.com/images/I/61p-lC6h4JL._AC_SL1000_.jpg",
		Description: "Extreme performance for gaming and content creation."},
	{Name: "ASUS ROG Maximus Z790", Category: "Motherboard", Price: 699.99,
		ImageURL:    "https://m.media-amazon.com/images/I/81I-g4-qRlL._AC_SL1500_.jpg",
		Description: "The perfect base for your dream build."},
	{Name: "AMD Ryzen 9 7950X3D", Category: "CPU", Price: 649.99,
		ImageURL:    "https://m.media-amazon.com/images/I/51f2hk8lJPL._AC_SL1000_.jpg",
		Description: "The best gaming processor, with **3D V-Cache**."},
	{Name: "AMD Radeon RX 7900 XTX", Category: "GPU", Price: 999.99,
		ImageURL:    "https://m.media-amazon.com/images/I/71s6VwH7iGL._AC_SL1500_.jpg",
		Description: "Raw power for 4K gaming."},
}

// ExecuteSeedProducts creates the launch catalog if the product table is empty.
// PRE: Database is initialized
// POST: Catalog seeded once; later calls are no-ops
func ExecuteSeedProducts(ctx context.Context, deps SeedProductsDeps) error {
	count, err := deps.ProductStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	base := deps.Now()
	for i, p := range defaultCatalog {
		p.ID = deps.GenerateID()
		p.Stock = product.DefaultStock
		// Spread creation times so catalog order is stable.
		p.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		if err := deps.ProductStore.Save(ctx, p); err != nil {
			return err
		}
	}

	slog.Info("catalog_event", "event", "catalog_seeded", "count", len(defaultCatalog))
	return nil
}
