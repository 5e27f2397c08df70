package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/domain/product"
)

// ProductStoreForAdd defines the store interface needed by AddProduct.
type ProductStoreForAdd interface {
	Save(ctx context.Context, p product.Product) error
}

// AddProductInput carries input for the add-product orchestrator.
type AddProductInput struct {
	Name        string
	Category    string
	Price       float64
	Stock       *int // nil uses product.DefaultStock
	ImageURL    string
	Description string
}

// AddProductDeps holds dependencies for AddProduct.
type AddProductDeps struct {
	ProductStore ProductStoreForAdd
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteAddProduct adds a product to the catalog.
// PRE: Caller is an admin
// POST: Product persisted with a new ID
func ExecuteAddProduct(ctx context.Context, input AddProductInput, deps AddProductDeps) (product.Product, error) {
	stock := product.DefaultStock
	if input.Stock != nil {
		stock = *input.Stock
	}

	p := product.Product{
		ID:          deps.GenerateID(),
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		Price:       input.Price,
		Stock:       stock,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Description: input.Description,
		CreatedAt:   deps.Now(),
	}
	if err := p.Validate(); err != nil {
		return product.Product{}, err
	}
	if err := deps.ProductStore.Save(ctx, p); err != nil {
		return product.Product{}, err
	}

	slog.Info("catalog_event", "event", "product_added", "product_id", p.ID, "name", p.Name)
	return p, nil
}
