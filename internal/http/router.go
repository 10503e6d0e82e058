package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"waterbill-backend/internal/handlers"
	"waterbill-backend/internal/middleware"
	"waterbill-backend/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	billHandler *handlers.BillHandler,
	paymentHandler *handlers.PaymentHandler,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	cashierOnly := authMiddleware.RequireRole(models.RoleCashier)

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Current user
	meAPI := r.PathPrefix("/api/me").Subrouter()
	meAPI.Use(authMiddleware.Authenticate)
	meAPI.HandleFunc("", authHandler.Me).Methods("GET")

	// Protected API routes - Customers (cashier only)
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(cashierOnly)
	customersAPI.HandleFunc("", customerHandler.List).Methods("GET")
	customersAPI.HandleFunc("/{id}/account-number", customerHandler.AssignAccountNumber).Methods("POST")
	customersAPI.HandleFunc("/{id}/bills", billHandler.ListByCustomer).Methods("GET")

	// Protected API routes - Bills
	billsAPI := r.PathPrefix("/api/bills").Subrouter()
	billsAPI.Use(authMiddleware.Authenticate)
	billsAPI.HandleFunc("", cashierOnly(http.HandlerFunc(billHandler.Create)).ServeHTTP).Methods("POST")
	billsAPI.HandleFunc("", cashierOnly(http.HandlerFunc(billHandler.List)).ServeHTTP).Methods("GET")
	billsAPI.HandleFunc("/due", cashierOnly(http.HandlerFunc(billHandler.DueBills)).ServeHTTP).Methods("GET")
	billsAPI.HandleFunc("/my", billHandler.ListMine).Methods("GET")
	billsAPI.HandleFunc("/{id}", billHandler.Get).Methods("GET")
	billsAPI.HandleFunc("/{id}/payments", paymentHandler.ListByBill).Methods("GET")

	// Protected API routes - Monthly billing runs (cashier only)
	billingRunsAPI := r.PathPrefix("/api/billing-runs").Subrouter()
	billingRunsAPI.Use(cashierOnly)
	billingRunsAPI.HandleFunc("", billHandler.Generate).Methods("POST")

	// Protected API routes - Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", paymentHandler.Create).Methods("POST")
	paymentsAPI.HandleFunc("", cashierOnly(http.HandlerFunc(paymentHandler.List)).ServeHTTP).Methods("GET")
	paymentsAPI.HandleFunc("/my", paymentHandler.ListMine).Methods("GET")
	paymentsAPI.HandleFunc("/receipt/{receiptNumber}", paymentHandler.GetByReceipt).Methods("GET")

	// Protected API routes - Dashboard (role-routed) and activity feed
	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("", dashboardHandler.Dashboard).Methods("GET")

	activityAPI := r.PathPrefix("/api/activity").Subrouter()
	activityAPI.Use(cashierOnly)
	activityAPI.HandleFunc("", dashboardHandler.Activity).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
