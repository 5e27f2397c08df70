package product

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for admin-editable fields.
const (
	MaxNameLength     = 100
	MaxCategoryLength = 50
	MaxImageURLLength = 200
)

// DefaultStock is the stock assigned when none is given.
const DefaultStock = 10

// Domain errors
var (
	ErrNotFound      = errors.New("product not found")
	ErrOutOfStock    = errors.New("product is out of stock")
	ErrEmptyName     = errors.New("product name cannot be empty")
	ErrEmptyCategory = errors.New("product category cannot be empty")
	ErrInvalidPrice  = errors.New("product price must be greater than zero")
	ErrNegativeStock = errors.New("product stock cannot be negative")

	ErrNameTooLong     = errors.New("product name cannot exceed 100 characters")
	ErrCategoryTooLong = errors.New("product category cannot exceed 50 characters")
	ErrImageURLTooLong = errors.New("image URL cannot exceed 200 characters")
)

// Product is an item for sale in the catalog.
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       float64
	Stock       int
	ImageURL    string
	Description string // Markdown
	CreatedAt   time.Time
}

// Validate checks if the Product has valid data.
// PRE: Product struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Product) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	category := strings.TrimSpace(p.Category)
	if category == "" {
		return ErrEmptyCategory
	}
	if len(category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	if len(p.ImageURL) > MaxImageURLLength {
		return ErrImageURLTooLong
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// InStock returns true if at least one unit is available.
// INVARIANT: Product fields are not mutated
func (p *Product) InStock() bool {
	return p.Stock > 0
}
