package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haroldnikoue/storefront-backend/api/controllers"
	"github.com/haroldnikoue/storefront-backend/api/middleware"
	"github.com/haroldnikoue/storefront-backend/internal/cart"
	"github.com/haroldnikoue/storefront-backend/internal/drafts"
	"github.com/haroldnikoue/storefront-backend/internal/orders"
	"github.com/haroldnikoue/storefront-backend/pkg/config"
	"github.com/haroldnikoue/storefront-backend/pkg/db"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
	"github.com/haroldnikoue/storefront-backend/pkg/metrics"
	"github.com/haroldnikoue/storefront-backend/pkg/pubsub"
	"github.com/haroldnikoue/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	dbP db.Pinger,
	redisClient *redis.Client,
	pubsubClient *pubsub.Client,
	cartService cart.Service,
	draftService drafts.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, pubsubClient))
	})

	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionContext(logg))

		r.Get("/ping", controllers.StorefrontPing())

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", controllers.CartGetOrCreate(cartService, logg))
			r.Get("/", controllers.CartGetBySession(cartService, logg))
			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Route("/items", func(r chi.Router) {
					r.Post("/", controllers.CartAddItem(cartService, logg))
					r.Delete("/", controllers.CartClear(cartService, logg))
					r.Patch("/{itemId}", controllers.CartUpdateItem(cartService, logg))
					r.Delete("/{itemId}", controllers.CartRemoveItem(cartService, logg))
				})
			})
		})

		r.Route("/checkout/draft", func(r chi.Router) {
			r.Get("/", controllers.DraftGet(draftService, logg))
			r.Put("/", controllers.DraftSave(draftService, logg))
			r.Delete("/", controllers.DraftDelete(draftService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(orderService, cartService, logg))
			r.Get("/{orderId}", controllers.OrderGet(orderService, logg))
		})

		r.Get("/customers/{customerId}/orders", controllers.OrderListByCustomer(orderService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/drafts/cleanup", controllers.DraftsCleanup(draftService, logg))
	})

	return r
}
