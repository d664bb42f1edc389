package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshbasket/freshbasket-backend/api/controllers"
	cartcontrollers "github.com/freshbasket/freshbasket-backend/api/controllers/cart"
	ordercontrollers "github.com/freshbasket/freshbasket-backend/api/controllers/orders"
	"github.com/freshbasket/freshbasket-backend/api/middleware"
	"github.com/freshbasket/freshbasket-backend/internal/cart"
	"github.com/freshbasket/freshbasket-backend/internal/catalog"
	"github.com/freshbasket/freshbasket-backend/internal/coupons"
	"github.com/freshbasket/freshbasket-backend/internal/orders"
	"github.com/freshbasket/freshbasket-backend/internal/wishlist"
	"github.com/freshbasket/freshbasket-backend/pkg/config"
	"github.com/freshbasket/freshbasket-backend/pkg/db"
	"github.com/freshbasket/freshbasket-backend/pkg/logger"
	"github.com/freshbasket/freshbasket-backend/pkg/metrics"
	"github.com/freshbasket/freshbasket-backend/pkg/redis"
)

type Services struct {
	Catalog  catalog.Service
	Coupons  coupons.Service
	Cart     cart.Service
	Orders   orders.Service
	Wishlist wishlist.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	// Browsing the catalog and coupon list needs no account.
	r.Route("/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svcs.Catalog, logg))
		r.Get("/{productId}", controllers.ProductFetch(svcs.Catalog, logg))
	})
	r.Route("/v1/coupons", func(r chi.Router) {
		r.Get("/", controllers.CouponList(svcs.Coupons, logg))
		r.Get("/{code}", controllers.CouponFetch(svcs.Coupons, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(svcs.Cart, logg))
			r.Delete("/", cartcontrollers.CartClear(svcs.Cart, logg))
			r.Post("/items", cartcontrollers.CartAddItem(svcs.Cart, logg))
			r.Put("/items/{itemId}", cartcontrollers.CartSetQuantity(svcs.Cart, logg))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(svcs.Cart, logg))
			r.Post("/coupon", cartcontrollers.CartApplyCoupon(svcs.Cart, logg))
			r.Delete("/coupon", cartcontrollers.CartRemoveCoupon(svcs.Cart, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.Checkout(svcs.Orders, logg))
			r.Get("/", ordercontrollers.OrderList(svcs.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.OrderFetch(svcs.Orders, logg))
			r.Post("/{orderId}/cancel", ordercontrollers.OrderCancel(svcs.Orders, logg))
		})

		r.Route("/v1/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
			r.Post("/", controllers.WishlistAddItem(svcs.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemoveItem(svcs.Wishlist, logg))
		})
	})

	return r
}
