package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/herbalstore/storefront-backend/api/controllers"
	"github.com/herbalstore/storefront-backend/api/middleware"
	"github.com/herbalstore/storefront-backend/internal/cart"
	checkoutsvc "github.com/herbalstore/storefront-backend/internal/checkout"
	"github.com/herbalstore/storefront-backend/internal/orders"
	products "github.com/herbalstore/storefront-backend/internal/products"
	"github.com/herbalstore/storefront-backend/internal/selection"
	"github.com/herbalstore/storefront-backend/pkg/config"
	"github.com/herbalstore/storefront-backend/pkg/db"
	"github.com/herbalstore/storefront-backend/pkg/logger"
	pkgredis "github.com/herbalstore/storefront-backend/pkg/redis"
)

// RedisStore is the redis surface the HTTP layer needs for readiness,
// idempotent replays and checkout throttling.
type RedisStore interface {
	pkgredis.IdempotencyStore
	pkgredis.Pinger
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisStore RedisStore,
	metricsHandler http.Handler,
	productService products.Service,
	selectionService selection.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	readiness := map[string]controllers.Pinger{}
	if dbP != nil {
		readiness["db"] = dbP
	}
	if redisStore != nil {
		readiness["redis"] = redisStore
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	var idemStore pkgredis.IdempotencyStore
	var rateStore interface {
		FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	}
	if redisStore != nil {
		idemStore = redisStore
		rateStore = redisStore
	}
	idempotent := middleware.Idempotency(idemStore, cfg.Checkout.IdempotencyTTL, logg)
	checkoutPolicy := middleware.NewCheckoutRateLimitPolicy(
		cfg.Checkout.RateLimitWindow,
		cfg.Checkout.RateLimitIP,
		cfg.Checkout.RateLimitPhone,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/{productId}", controllers.ProductGet(productService, logg))
			r.Get("/{productId}/options", controllers.ProductOptions(selectionService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(cartService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.With(idempotent).Post("/items", controllers.CartAddItem(selectionService, cartService, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
			})

			r.With(
				middleware.CheckoutRateLimit(checkoutPolicy, rateStore, logg),
				idempotent,
			).Post("/checkout", controllers.CheckoutSubmit(checkoutService, logg))
		})

		r.Route("/orders/{orderId}", func(r chi.Router) {
			r.Get("/", controllers.OrderGet(ordersService, logg))
			r.Get("/payment", controllers.OrderPayment(ordersService, logg))
		})
	})

	return r
}
