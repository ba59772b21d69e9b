package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hengonghuat/cafe-backend/api/routes"
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
	"github.com/hengonghuat/cafe-backend/pkg/logger"
	"github.com/hengonghuat/cafe-backend/pkg/metrics"
	"github.com/hengonghuat/cafe-backend/pkg/migrate"
	"github.com/hengonghuat/cafe-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)

	conn := dbClient.DB()
	customerRepo := customers.NewRepository(conn)
	adminRepo := admins.NewRepository(conn)
	menuRepo := menu.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	discountRepo := discounts.NewRepository(conn)
	settingsRepo := settings.NewRepository(conn)
	feedbackRepo := feedback.NewRepository(conn)
	reportRepo := reports.NewRepository(conn)

	settingsService, err := settings.NewService(settingsRepo, cfg.Loyalty)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	customerService, err := customers.NewService(customerRepo, customers.NewLogMailer(logg), cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}
	adminService, err := admins.NewService(adminRepo, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}
	menuService, err := menu.NewService(menuRepo, settingsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create menu service", err)
		os.Exit(1)
	}
	discountService, err := discounts.NewService(dbClient, discountRepo, customerRepo, orderRepo, orderMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(dbClient, orderRepo, customerRepo, discountService, settingsService, orderMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	feedbackService, err := feedback.NewService(feedbackRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create feedback service", err)
		os.Exit(1)
	}
	reportService, err := reports.NewService(reportRepo, cfg.Loyalty.ForecastAlpha)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			customerService,
			adminService,
			menuService,
			orderService,
			discountService,
			settingsService,
			feedbackService,
			reportService,
		),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
		}
		logg.Info(ctx, "api server stopped")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}
