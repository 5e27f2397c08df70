package projections

import (
	"context"
	"time"

	"storefront/internal/application/listutil"
	"storefront/internal/domain/card"
	"storefront/internal/domain/purchase"
)

// PurchaseView is a purchase as shown in order histories.
type PurchaseView struct {
	ID            string    `json:"id"`
	BuyerName     string    `json:"buyer_name"`
	Cedula        string    `json:"cedula"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	TotalPrice    float64   `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
	CardBrand     string    `json:"card_brand,omitempty"`
	Date          time.Time `json:"date"`
}

// NewPurchaseView converts a purchase for display.
func NewPurchaseView(p purchase.Purchase) PurchaseView {
	brand := ""
	if p.CardBrand != "" {
		brand = card.DisplayNames[card.Brand(p.CardBrand)]
	}
	return PurchaseView{
		ID:            p.ID,
		BuyerName:     p.BuyerName,
		Cedula:        p.Cedula,
		Email:         p.Email,
		Phone:         p.Phone,
		ProductID:     p.ProductID,
		ProductName:   p.ProductName,
		TotalPrice:    p.TotalPrice,
		PaymentMethod: p.PaymentMethod,
		CardBrand:     brand,
		Date:          p.CreatedAt,
	}
}

// GetPurchaseHistoryDeps holds dependencies for the purchase history projection.
type GetPurchaseHistoryDeps struct {
	PurchaseStore PurchaseStore
}

// GetPurchaseHistory returns the purchases made with email, newest first.
// PRE: email belongs to the authenticated caller
// POST: result is never nil
func GetPurchaseHistory(ctx context.Context, email string, deps GetPurchaseHistoryDeps) ([]PurchaseView, error) {
	purchases, err := deps.PurchaseStore.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	views := make([]PurchaseView, 0, len(purchases))
	for _, p := range purchases {
		views = append(views, NewPurchaseView(p))
	}
	return views, nil
}

// GetAdminDashboardQuery carries input for the admin dashboard projection.
type GetAdminDashboardQuery struct {
	Page listutil.PageParams // pages the purchase list
}

// GetAdminDashboardDeps holds dependencies for the admin dashboard projection.
type GetAdminDashboardDeps struct {
	ProductStore  ProductStore
	PurchaseStore PurchaseStore
}

// LowStockThreshold marks products that need restocking on the dashboard.
const LowStockThreshold = 2

// AdminDashboardResult carries the output of the admin dashboard projection.
type AdminDashboardResult struct {
	Products      []ProductView     `json:"products"`
	LowStock      []ProductView     `json:"low_stock"`
	Purchases     []PurchaseView    `json:"purchases"`
	PurchasePage  listutil.PageInfo `json:"purchase_page"`
	PurchaseCount int               `json:"purchase_count"`
	Revenue       float64           `json:"revenue"`
}

// GetAdminDashboard returns every product and a page of purchases, newest first,
// with store-wide totals.
// PRE: Caller is an admin
func GetAdminDashboard(ctx context.Context, query GetAdminDashboardQuery, deps GetAdminDashboardDeps) (AdminDashboardResult, error) {
	products, err := deps.ProductStore.List(ctx, 0)
	if err != nil {
		return AdminDashboardResult{}, err
	}
	purchases, err := deps.PurchaseStore.List(ctx)
	if err != nil {
		return AdminDashboardResult{}, err
	}

	res := AdminDashboardResult{
		Products:      toViews(products),
		LowStock:      []ProductView{},
		PurchaseCount: len(purchases),
	}
	for _, v := range res.Products {
		if v.Stock <= LowStockThreshold {
			res.LowStock = append(res.LowStock, v)
		}
	}
	for _, p := range purchases {
		res.Revenue += p.TotalPrice
	}

	pageItems, info := listutil.Paginate(purchases, query.Page)
	res.PurchasePage = info
	res.Purchases = make([]PurchaseView, 0, len(pageItems))
	for _, p := range pageItems {
		res.Purchases = append(res.Purchases, NewPurchaseView(p))
	}
	return res, nil
}
