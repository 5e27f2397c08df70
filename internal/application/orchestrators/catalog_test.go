package orchestrators

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/product"
)

// TestSeedProducts tests the launch catalog is seeded once.
func TestSeedProducts(t *testing.T) {
	store := newMockProductStore()
	deps := SeedProductsDeps{ProductStore: store, GenerateID: newIDGenerator("prod"), Now: testNow}

	if err := ExecuteSeedProducts(context.Background(), deps); err != nil {
		t.Fatalf("ExecuteSeedProducts: %v", err)
	}
	if len(store.products) != len(defaultCatalog) {
		t.Fatalf("products = %d, want %d", len(store.products), len(defaultCatalog))
	}
	first := store.products["prod-1"]
	if first.Name != "NVIDIA RTX 4090" || first.Price != 1999.99 || first.Stock != product.DefaultStock {
		t.Errorf("first product = %+v", first)
	}
	if !store.products["prod-2"].CreatedAt.After(first.CreatedAt) {
		t.Error("creation times not increasing")
	}

	if err := ExecuteSeedProducts(context.Background(), deps); err != nil {
		t.Fatalf("second ExecuteSeedProducts: %v", err)
	}
	if len(store.products) != len(defaultCatalog) {
		t.Errorf("reseeding added products: %d", len(store.products))
	}
}

// TestAddProduct tests adding a product with and without explicit stock.
func TestAddProduct(t *testing.T) {
	store := newMockProductStore()
	deps := AddProductDeps{ProductStore: store, GenerateID: newIDGenerator("prod"), Now: testNow}

	p, err := ExecuteAddProduct(context.Background(), AddProductInput{
		Name: " Corsair RM1000x ", Category: "PSU", Price: 189.99,
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteAddProduct: %v", err)
	}
	if p.Name != "Corsair RM1000x" || p.Stock != product.DefaultStock {
		t.Errorf("product = %+v", p)
	}

	zero := 0
	p, err = ExecuteAddProduct(context.Background(), AddProductInput{
		Name: "Preorder", Category: "GPU", Price: 10, Stock: &zero,
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteAddProduct: %v", err)
	}
	if p.Stock != 0 {
		t.Errorf("Stock = %d, want 0", p.Stock)
	}
}

// TestAddProduct_Invalid tests validation errors.
func TestAddProduct_Invalid(t *testing.T) {
	deps := AddProductDeps{ProductStore: newMockProductStore(), GenerateID: newIDGenerator("prod"), Now: testNow}
	neg := -1
	tests := []struct {
		input AddProductInput
		want  error
	}{
		{AddProductInput{Category: "GPU", Price: 1}, product.ErrEmptyName},
		{AddProductInput{Name: "X", Price: 1}, product.ErrEmptyCategory},
		{AddProductInput{Name: "X", Category: "GPU"}, product.ErrInvalidPrice},
		{AddProductInput{Name: "X", Category: "GPU", Price: 1, Stock: &neg}, product.ErrNegativeStock},
	}
	for _, tt := range tests {
		if _, err := ExecuteAddProduct(context.Background(), tt.input, deps); !errors.Is(err, tt.want) {
			t.Errorf("ExecuteAddProduct(%+v) error = %v, want %v", tt.input, err, tt.want)
		}
	}
}
