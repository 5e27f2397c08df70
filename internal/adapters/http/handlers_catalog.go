package web

import (
	"errors"
	"net/http"

	"storefront/internal/application/listutil"
	"storefront/internal/application/projections"
	"storefront/internal/domain/card"
	"storefront/internal/domain/cedula"
	"storefront/internal/domain/product"
)

// handleListProducts handles GET /api/products?category=&page=&per_page=
func handleListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	res, err := projections.GetCatalog(r.Context(), projections.GetCatalogQuery{
		Category: q.Get("category"),
		Page:     listutil.ParsePageParams(q),
	}, projections.GetCatalogDeps{ProductStore: stores.ProductStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleFeaturedProducts handles GET /api/products/featured
func handleFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	views, err := projections.GetFeaturedProducts(r.Context(), projections.GetCatalogDeps{ProductStore: stores.ProductStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": views})
}

// handleGetProduct handles GET /api/products/{id}
func handleGetProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	view, err := projections.GetProduct(r.Context(), r.PathValue("id"), projections.GetCatalogDeps{ProductStore: stores.ProductStore})
	if errors.Is(err, product.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleValidateCedula handles POST /api/cedula/validate
// Separators typed by the shopper are stripped before the check, as the checkout form does.
func handleValidateCedula(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := cedula.Sanitize(fields["cedula"])
	reason := cedula.Check(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"cedula": id,
		"valid":  reason == cedula.ReasonOK,
		"reason": reason,
	})
}

// handleCardBrand handles POST /api/card/brand
func handleCardBrand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	number := fields["number"]
	brand := card.Detect(number)
	writeJSON(w, http.StatusOK, map[string]any{
		"brand":        brand,
		"display_name": card.DisplayNames[brand],
		"accepted":     card.Accepted(number),
		"formatted":    card.Format(number),
	})
}
