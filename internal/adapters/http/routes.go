package web

import (
	"net/http"
	"time"

	"storefront/internal/adapters/http/middleware"
	"storefront/internal/domain/account"
)

func registerRoutes(mux *http.ServeMux) {
	// Email relay
	relay := middleware.CORS(config.AllowedOrigin)
	mux.HandleFunc("/api/{$}", handleRelayStatus)
	mux.Handle("/api/send-email", relay(http.HandlerFunc(handleSendEmail)))

	// Catalog
	mux.HandleFunc("/api/products", handleListProducts)
	mux.HandleFunc("/api/products/featured", handleFeaturedProducts)
	mux.HandleFunc("/api/products/{id}", handleGetProduct)

	// Checkout helpers and purchases
	mux.HandleFunc("/api/cedula/validate", handleValidateCedula)
	mux.HandleFunc("/api/card/brand", handleCardBrand)
	mux.Handle("/api/buy", middleware.RequireAuth(http.HandlerFunc(handleBuy)))
	mux.Handle("/api/profile/purchases", middleware.RequireAuth(http.HandlerFunc(handleProfilePurchases)))
	mux.Handle("/api/profile/password", middleware.RequireAuth(http.HandlerFunc(handleChangePassword)))

	// Accounts
	registerLimit := middleware.RateLimit(middleware.NewRateLimiter(RegisterPerMinute, time.Minute))
	loginLimit := middleware.RateLimit(middleware.NewRateLimiter(LoginPerMinute, time.Minute))
	mux.Handle("/register", registerLimit(http.HandlerFunc(handleRegister)))
	mux.Handle("/login", loginLimit(http.HandlerFunc(handleLogin)))
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/forgot-password", handleForgotPassword)
	mux.HandleFunc("/reset-password", handleResetPassword)
	mux.HandleFunc("/api/csrf-token", handleCSRFToken)

	// Admin
	admin := middleware.RequireRole(account.RoleAdmin)
	mux.Handle("/api/admin/dashboard", admin(http.HandlerFunc(handleAdminDashboard)))
	mux.Handle("/api/admin/products", admin(http.HandlerFunc(handleAdminAddProduct)))
}
