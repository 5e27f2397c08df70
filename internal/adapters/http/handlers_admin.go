package web

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/application/listutil"
	"storefront/internal/application/orchestrators"
	"storefront/internal/application/projections"
	"storefront/internal/domain/product"
)

// handleAdminDashboard handles GET /api/admin/dashboard?page=&per_page=
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	res, err := projections.GetAdminDashboard(r.Context(), projections.GetAdminDashboardQuery{
		Page: listutil.ParsePageParams(r.URL.Query()),
	}, projections.GetAdminDashboardDeps{
		ProductStore:  stores.ProductStore,
		PurchaseStore: stores.PurchaseStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var productValidationErrors = []error{
	product.ErrEmptyName,
	product.ErrEmptyCategory,
	product.ErrInvalidPrice,
	product.ErrNegativeStock,
	product.ErrNameTooLong,
	product.ErrCategoryTooLong,
	product.ErrImageURLTooLong,
}

// handleAdminAddProduct handles POST /api/admin/products
func handleAdminAddProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	price, err := strconv.ParseFloat(fields["price"], 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "price must be a number")
		return
	}
	input := orchestrators.AddProductInput{
		Name:        fields["name"],
		Category:    fields["category"],
		Price:       price,
		ImageURL:    fields["image_url"],
		Description: fields["description"],
	}
	if raw := fields["stock"]; raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "stock must be a whole number")
			return
		}
		input.Stock = &stock
	}

	p, err := orchestrators.ExecuteAddProduct(r.Context(), input, orchestrators.AddProductDeps{
		ProductStore: stores.ProductStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		for _, known := range productValidationErrors {
			if errors.Is(err, known) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"product": projections.NewProductView(p)})
}
