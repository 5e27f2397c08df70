package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "storefront/internal/adapters/email"
	"storefront/internal/adapters/markdown"
	"storefront/internal/domain/card"
	"storefront/internal/domain/cedula"
	"storefront/internal/domain/product"
	"storefront/internal/domain/purchase"
)

// ProductStoreForBuy defines the product store interface needed by Buy.
type ProductStoreForBuy interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

// PurchaseStoreForBuy defines the purchase store interface needed by Buy.
type PurchaseStoreForBuy interface {
	Record(ctx context.Context, p purchase.Purchase) error
}

// BuyInput carries input for the buy orchestrator.
type BuyInput struct {
	ProductID     string
	BuyerName     string
	Cedula        string
	Email         string
	Phone         string
	PaymentMethod string // empty when the checkout sends no method
	CardNumber    string // used for brand detection only, never stored
}

// BuyDeps holds dependencies for Buy.
type BuyDeps struct {
	ProductStore  ProductStoreForBuy
	PurchaseStore PurchaseStoreForBuy
	EmailSender   emailAdapter.Sender // optional: nil skips the confirmation
	GenerateID    func() string
	Now           func() time.Time
}

// BuyResult carries the outcome of a purchase.
type BuyResult struct {
	Purchase         purchase.Purchase
	ConfirmationSent bool
}

// ExecuteBuy validates a checkout, takes one unit of stock and records the purchase.
// PRE: Caller is authenticated
// POST: Purchase recorded and stock decremented, or an error with nothing persisted
// INVARIANT: The charged price is the catalog price, never a client-supplied value
func ExecuteBuy(ctx context.Context, input BuyInput, deps BuyDeps) (BuyResult, error) {
	if input.ProductID == "" {
		return BuyResult{}, purchase.ErrEmptyProduct
	}
	prod, err := deps.ProductStore.GetByID(ctx, input.ProductID)
	if err != nil {
		return BuyResult{}, err
	}
	if !prod.InStock() {
		return BuyResult{}, product.ErrOutOfStock
	}

	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	p := purchase.Purchase{
		ID:            deps.GenerateID(),
		BuyerName:     strings.TrimSpace(input.BuyerName),
		Cedula:        cedula.Sanitize(input.Cedula),
		Email:         strings.TrimSpace(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		ProductID:     prod.ID,
		ProductName:   prod.Name,
		TotalPrice:    prod.Price,
		PaymentMethod: method,
		CreatedAt:     deps.Now(),
	}
	if method == purchase.PaymentCard {
		p.CardBrand = string(card.Detect(input.CardNumber))
	}
	if err := p.Validate(); err != nil {
		return BuyResult{}, err
	}

	if err := deps.PurchaseStore.Record(ctx, p); err != nil {
		return BuyResult{}, err
	}
	slog.Info("purchase_event", "event", "purchase_recorded", "purchase_id", p.ID, "product_id", p.ProductID, "total", p.TotalPrice, "payment", p.PaymentMethod)

	sent := notify(ctx, deps.EmailSender, "purchase_confirmation", p.Email,
		"Purchase confirmation - PONTE ONCE", confirmationBody(p))
	return BuyResult{Purchase: p, ConfirmationSent: sent}, nil
}

func confirmationBody(p purchase.Purchase) string {
	phone := p.Phone
	if phone == "" {
		phone = "N/A"
	}
	return fmt.Sprintf("Hello %s,\n\nThank you for buying **%s**.\nTotal: $%.2f\nContact phone: %s\n\n"+
		"We will call you on this number shortly to arrange delivery.\n\nThe PONTE ONCE team",
		markdown.Escape(p.BuyerName), markdown.Escape(p.ProductName), p.TotalPrice, markdown.Escape(phone))
}
