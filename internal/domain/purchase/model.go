package purchase

import (
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/card"
	"storefront/internal/domain/cedula"
)

// Max length constants for buyer-supplied fields.
const (
	MaxNameLength  = 100
	MaxEmailLength = 100
	MaxPhoneLength = 20
)

// Payment methods. PaymentUnspecified covers checkouts that post no method at all;
// the card rules apply only when the shopper picked PaymentCard.
const (
	PaymentUnspecified = ""
	PaymentCard        = "card"
	PaymentTransfer    = "transfer"
	PaymentCash        = "cash"
)

// Domain errors
var (
	ErrEmptyBuyerName   = errors.New("buyer name cannot be empty")
	ErrInvalidEmail     = errors.New("buyer email must be valid")
	ErrInvalidCedula    = errors.New("the cedula entered is not valid")
	ErrInvalidPayment   = errors.New("payment method must be one of: card, transfer, cash")
	ErrCardNotAccepted  = errors.New("card must be Visa, American Express, Mastercard or Discover")
	ErrEmptyProduct     = errors.New("product ID is required")
	ErrInvalidTotal     = errors.New("total price must be greater than zero")
	ErrPhoneTooLong     = errors.New("phone cannot exceed 20 characters")
	ErrBuyerNameTooLong = errors.New("buyer name cannot exceed 100 characters")
)

// Purchase records one unit of a product bought at checkout.
type Purchase struct {
	ID            string
	BuyerName     string
	Cedula        string
	Email         string
	Phone         string
	ProductID     string
	ProductName   string // Denormalized for display
	TotalPrice    float64
	PaymentMethod string
	CardBrand     string // Only the detected brand is kept, never the number
	CreatedAt     time.Time
}

// Validate checks if the Purchase has valid data.
// PRE: Purchase struct is populated; Cedula is already sanitized
// POST: Returns nil if valid, error otherwise
func (p *Purchase) Validate() error {
	name := strings.TrimSpace(p.BuyerName)
	if name == "" {
		return ErrEmptyBuyerName
	}
	if len(name) > MaxNameLength {
		return ErrBuyerNameTooLong
	}
	if len(p.Email) > MaxEmailLength || !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if len(p.Phone) > MaxPhoneLength {
		return ErrPhoneTooLong
	}
	if !cedula.Validate(p.Cedula) {
		return ErrInvalidCedula
	}
	if p.ProductID == "" {
		return ErrEmptyProduct
	}
	if p.TotalPrice <= 0 {
		return ErrInvalidTotal
	}
	switch p.PaymentMethod {
	case PaymentCard:
		if p.CardBrand == "" || p.CardBrand == string(card.BrandUnknown) {
			return ErrCardNotAccepted
		}
	case PaymentUnspecified, PaymentTransfer, PaymentCash:
	default:
		return ErrInvalidPayment
	}
	return nil
}
