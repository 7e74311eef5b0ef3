package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/herbalstore/storefront-backend/api/routes"
	"github.com/herbalstore/storefront-backend/internal/cart"
	"github.com/herbalstore/storefront-backend/internal/checkout"
	"github.com/herbalstore/storefront-backend/internal/notifications"
	"github.com/herbalstore/storefront-backend/internal/orders"
	product "github.com/herbalstore/storefront-backend/internal/products"
	"github.com/herbalstore/storefront-backend/internal/promotions"
	"github.com/herbalstore/storefront-backend/internal/selection"
	"github.com/herbalstore/storefront-backend/pkg/config"
	"github.com/herbalstore/storefront-backend/pkg/db"
	"github.com/herbalstore/storefront-backend/pkg/logger"
	"github.com/herbalstore/storefront-backend/pkg/metrics"
	"github.com/herbalstore/storefront-backend/pkg/migrate"
	"github.com/herbalstore/storefront-backend/pkg/outbox"
	"github.com/herbalstore/storefront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
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

	recorder := metrics.NewStorefront(prometheus.DefaultRegisterer)

	tierService, err := promotions.NewService(promotions.ServiceParams{
		Repository: promotions.NewRepository(dbClient.DB()),
		Cache:      redisClient,
		CacheTTL:   cfg.Tiers.CacheTTL,
		Logger:     logg,
		Metrics:    recorder,
	})
	exitOnErr(logg, "promotion tier service", err)

	productService, err := product.NewService(product.NewRepository(dbClient.DB()), tierService)
	exitOnErr(logg, "product service", err)

	selectionService, err := selection.NewService(productService, tierService)
	exitOnErr(logg, "selection service", err)

	sessions, err := cart.NewSessionRepository(redisClient, cfg.Cart.SessionTTL)
	exitOnErr(logg, "cart session repository", err)
	cartService, err := cart.NewService(sessions, recorder)
	exitOnErr(logg, "cart service", err)

	ordersRepo := orders.NewRepository(dbClient.DB())
	instructions := orders.NewInstructionBuilder(cfg.Checkout)
	ordersService, err := orders.NewService(ordersRepo, instructions)
	exitOnErr(logg, "orders service", err)

	notifier := notifications.NewDispatcher(logg, recorder,
		notifications.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout),
	)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:           dbClient,
		Orders:       ordersRepo,
		Carts:        cartService,
		Outbox:       outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		Instructions: instructions,
		Notifier:     notifier,
		Metrics:      recorder,
		Logger:       logg,
		Config:       cfg.Checkout,
	})
	exitOnErr(logg, "checkout service", err)

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			metrics.Handler(prometheus.DefaultGatherer),
			productService,
			selectionService,
			cartService,
			checkoutService,
			ordersService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

func exitOnErr(logg *logger.Logger, component string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+component, err)
	os.Exit(1)
}
