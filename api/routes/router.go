package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hengonghuat/cafe-backend/api/controllers"
	"github.com/hengonghuat/cafe-backend/api/middleware"
	"github.com/hengonghuat/cafe-backend/internal/admins"
	"github.com/hengonghuat/cafe-backend/internal/customers"
	"github.com/hengonghuat/cafe-backend/internal/discounts"
	"github.com/hengonghuat/cafe-backend/internal/feedback"
	"github.com/hengonghuat/cafe-backend/internal/menu"
	"github.com/hengonghuat/cafe-backend/internal/orders"
	"github.com/hengonghuat/cafe-backend/internal/reports"
	"github.com/hengonghuat/cafe-backend/internal/settings"
	"github.com/hengonghuat/cafe-backend/pkg/config"
	"github.com/hengonghuat/cafe-backend/pkg/db"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
	"github.com/hengonghuat/cafe-backend/pkg/logger"
	"github.com/hengonghuat/cafe-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	customerService customers.Service,
	adminService admins.Service,
	menuService menu.Service,
	orderService orders.Service,
	discountService discounts.Service,
	settingsService settings.Service,
	feedbackService feedback.Service,
	reportService reports.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginNameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterNameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.CustomerRegister(customerService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.CustomerLogin(customerService, logg))
		r.Post("/forgot-password", controllers.CustomerForgotPassword(customerService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminRegister(adminService, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminLogin(adminService, logg))
	})

	// Menu browsing and feedback submission stay unauthenticated so the
	// storefront kiosk can serve walk-ins.
	r.Route("/api/v1/menu", func(r chi.Router) {
		r.Get("/", controllers.ListMenu(menuService, logg))
		r.Get("/categories", controllers.ListCategories(menuService, logg))
	})
	r.Post("/api/v1/feedback", controllers.SubmitFeedback(feedbackService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(orderService, logg))
			r.Get("/", controllers.ListOrders(orderService, logg))
			r.Get("/{orderId}/invoice", controllers.OrderInvoice(orderService, logg))
		})

		r.Route("/discounts", func(r chi.Router) {
			r.Get("/", controllers.ListDiscounts(discountService, logg))
			r.Post("/redeem", controllers.RedeemDiscount(discountService, logg))
			r.Post("/apply", controllers.ApplyDiscount(discountService, logg))
		})

		r.Route("/customers/me", func(r chi.Router) {
			r.Get("/", controllers.CustomerProfile(customerService, logg))
			r.Put("/", controllers.CustomerProfileUpdate(customerService, logg))
			r.Get("/discounts", controllers.CustomerDiscounts(discountService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.ActorRoleAdmin, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCRM(customerService, logg))
			r.Get("/top", controllers.AdminTopCustomers(customerService, logg))
			r.Get("/active", controllers.AdminActiveCustomers(customerService, logg))
			r.Put("/{customerId}", controllers.AdminUpdateCustomer(customerService, logg))
			r.Delete("/{customerId}", controllers.AdminDeleteCustomer(customerService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminList(adminService, logg))
			r.Post("/", controllers.AdminRegister(adminService, logg))
			r.Put("/{userId}", controllers.AdminUpdate(adminService, logg))
			r.Delete("/{userId}", controllers.AdminDelete(adminService, logg))
		})

		r.Route("/menu", func(r chi.Router) {
			r.Post("/", controllers.AddMenuItem(menuService, logg))
			r.Get("/low-stock", controllers.LowStockItems(menuService, logg))
			r.Put("/{itemId}", controllers.UpdateMenuItem(menuService, logg))
			r.Delete("/{itemId}", controllers.DeleteMenuItem(menuService, logg))
			r.Patch("/{itemId}/availability", controllers.SetMenuItemAvailability(menuService, logg))
			r.Post("/{itemId}/stock", controllers.AdjustMenuItemStock(menuService, logg))
		})

		r.Route("/discounts", func(r chi.Router) {
			r.Post("/", controllers.CreateDiscount(discountService, logg))
			r.Put("/{discountId}", controllers.UpdateDiscount(discountService, logg))
			r.Delete("/{discountId}", controllers.DeleteDiscount(discountService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrders(orderService, logg))
			r.Patch("/{orderId}/status", controllers.UpdateOrderStatus(orderService, logg))
			r.Post("/delete", controllers.DeleteOrders(orderService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/points-conversion-rate", controllers.GetPointsConversionRate(settingsService, logg))
			r.Put("/points-conversion-rate", controllers.UpdatePointsConversionRate(settingsService, logg))
			r.Get("/low-stock-threshold", controllers.GetLowStockThreshold(settingsService, logg))
			r.Put("/low-stock-threshold", controllers.UpdateLowStockThreshold(settingsService, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/revenue", controllers.RevenueReport(reportService, logg))
			r.Get("/daily-sales", controllers.DailySalesReport(reportService, logg))
			r.Get("/summary", controllers.SummaryReport(reportService, logg))
			r.Get("/trend", controllers.TrendReport(reportService, logg))
			r.Get("/top-selling", controllers.TopSellingReport(reportService, logg))
			r.Get("/hourly-orders", controllers.HourlyOrdersReport(reportService, logg))
			r.Get("/category-sales", controllers.CategorySalesReport(reportService, logg))
			r.Get("/items/{itemId}/history", controllers.ItemSalesHistoryReport(reportService, logg))
			r.Get("/items/{itemId}/forecast", controllers.ForecastReport(reportService, logg))
		})

		r.Get("/feedback", controllers.AdminFeedback(feedbackService, logg))
	})

	return r
}
