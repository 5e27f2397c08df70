package projections

import (
	"context"
	"strings"

	"storefront/internal/adapters/markdown"
	"storefront/internal/application/listutil"
	"storefront/internal/domain/product"
)

// FeaturedCount is the number of products shown on the landing page.
const FeaturedCount = 3

// ProductView is a product as presented to shoppers.
type ProductView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	Stock           int     `json:"stock"`
	InStock         bool    `json:"in_stock"`
	ImageURL        string  `json:"image_url,omitempty"`
	Description     string  `json:"description,omitempty"`
	DescriptionHTML string  `json:"description_html,omitempty"`
}

// NewProductView converts a product, rendering its markdown description.
func NewProductView(p product.Product) ProductView {
	v := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		InStock:     p.InStock(),
		ImageURL:    p.ImageURL,
		Description: p.Description,
	}
	if p.Description != "" {
		v.DescriptionHTML = markdown.ToHTML(p.Description)
	}
	return v
}

// GetCatalogQuery carries input for the catalog projection.
type GetCatalogQuery struct {
	Category string // optional exact-match filter, case-insensitive
	Page     listutil.PageParams
}

// GetCatalogDeps holds dependencies for the catalog projections.
type GetCatalogDeps struct {
	ProductStore ProductStore
}

// CatalogResult carries one page of the catalog.
type CatalogResult struct {
	Products []ProductView     `json:"products"`
	Page     listutil.PageInfo `json:"page"`
}

// GetCatalog returns a page of the catalog in listing order.
// PRE: none
// POST: Products is never nil
func GetCatalog(ctx context.Context, query GetCatalogQuery, deps GetCatalogDeps) (CatalogResult, error) {
	all, err := deps.ProductStore.List(ctx, 0)
	if err != nil {
		return CatalogResult{}, err
	}

	var filtered []product.Product
	for _, p := range all {
		if query.Category == "" || strings.EqualFold(p.Category, query.Category) {
			filtered = append(filtered, p)
		}
	}

	pageItems, info := listutil.Paginate(filtered, query.Page)
	return CatalogResult{Products: toViews(pageItems), Page: info}, nil
}

// GetFeaturedProducts returns the first FeaturedCount products.
func GetFeaturedProducts(ctx context.Context, deps GetCatalogDeps) ([]ProductView, error) {
	products, err := deps.ProductStore.List(ctx, FeaturedCount)
	if err != nil {
		return nil, err
	}
	return toViews(products), nil
}

// GetProduct returns a single product or product.ErrNotFound.
func GetProduct(ctx context.Context, id string, deps GetCatalogDeps) (ProductView, error) {
	p, err := deps.ProductStore.GetByID(ctx, id)
	if err != nil {
		return ProductView{}, err
	}
	return NewProductView(p), nil
}

func toViews(products []product.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	return views
}
