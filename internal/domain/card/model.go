package card

import (
	"strings"

	"storefront/internal/domain/cedula"
)

// Brand identifies a card network by its leading digit.
type Brand string

// Brand constants
const (
	BrandNone       Brand = ""
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandUnknown    Brand = "unknown"
)

// DisplayNames maps brands to the label shown to shoppers.
var DisplayNames = map[Brand]string{
	BrandVisa:       "Visa",
	BrandMastercard: "Mastercard",
	BrandAmex:       "American Express",
	BrandDiscover:   "Discover",
	BrandUnknown:    "Unrecognised card",
}

// Detect returns the brand for a card number. Non-digits are ignored.
// PRE: none
// POST: Returns BrandNone for input without digits, BrandUnknown for unsupported prefixes
func Detect(number string) Brand {
	digits := cedula.Sanitize(number)
	if digits == "" {
		return BrandNone
	}
	switch digits[0] {
	case '4':
		return BrandVisa
	case '5':
		return BrandMastercard
	case '3':
		return BrandAmex
	case '6':
		return BrandDiscover
	}
	return BrandUnknown
}

// Accepted reports whether the card belongs to one of the supported networks.
func Accepted(number string) bool {
	switch Detect(number) {
	case BrandVisa, BrandMastercard, BrandAmex, BrandDiscover:
		return true
	}
	return false
}

// Format groups the digits of number into blocks of four separated by spaces.
func Format(number string) string {
	digits := cedula.Sanitize(number)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
