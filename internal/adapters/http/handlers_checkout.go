package web

import (
	"errors"
	"net/http"

	"storefront/internal/adapters/http/middleware"
	"storefront/internal/application/orchestrators"
	"storefront/internal/application/projections"
	"storefront/internal/domain/product"
	"storefront/internal/domain/purchase"
)

// purchaseValidationErrors are reported back to the shopper verbatim.
var purchaseValidationErrors = []error{
	product.ErrOutOfStock,
	purchase.ErrEmptyBuyerName,
	purchase.ErrBuyerNameTooLong,
	purchase.ErrInvalidEmail,
	purchase.ErrPhoneTooLong,
	purchase.ErrInvalidCedula,
	purchase.ErrInvalidPayment,
	purchase.ErrCardNotAccepted,
	purchase.ErrEmptyProduct,
	purchase.ErrInvalidTotal,
}

func buyStatus(w http.ResponseWriter, status int, outcome, msg string) {
	writeJSON(w, status, map[string]any{"status": outcome, "message": msg})
}

// handleBuy handles POST /api/buy
func handleBuy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fields, err := readFields(w, r)
	if err != nil {
		buyStatus(w, http.StatusBadRequest, "error", err.Error())
		return
	}

	// Older checkout forms name the radio "payment".
	method := fields["payment_method"]
	if method == "" {
		method = fields["payment"]
	}

	res, err := orchestrators.ExecuteBuy(r.Context(), orchestrators.BuyInput{
		ProductID:     fields["product_id"],
		BuyerName:     fields["name"],
		Cedula:        fields["cedula"],
		Email:         fields["email"],
		Phone:         fields["phone"],
		PaymentMethod: method,
		CardNumber:    fields["card_number"],
	}, orchestrators.BuyDeps{
		ProductStore:  stores.ProductStore,
		PurchaseStore: stores.PurchaseStore,
		EmailSender:   emailSender,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if errors.Is(err, product.ErrNotFound) {
		buyStatus(w, http.StatusNotFound, "error", err.Error())
		return
	}
	for _, known := range purchaseValidationErrors {
		if errors.Is(err, known) {
			buyStatus(w, http.StatusBadRequest, "error", err.Error())
			return
		}
	}
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "success",
		"message":           "Purchase processed successfully",
		"purchase_id":       res.Purchase.ID,
		"total":             res.Purchase.TotalPrice,
		"confirmation_sent": res.ConfirmationSent,
	})
}

// handleProfilePurchases handles GET /api/profile/purchases
func handleProfilePurchases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	views, err := projections.GetPurchaseHistory(r.Context(), sess.Email, projections.GetPurchaseHistoryDeps{
		PurchaseStore: stores.PurchaseStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"purchases": views})
}
