package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asifmahmud/banglahat-backend/api/controllers"
	"github.com/asifmahmud/banglahat-backend/api/middleware"
	"github.com/asifmahmud/banglahat-backend/internal/admin"
	"github.com/asifmahmud/banglahat-backend/internal/cart"
	"github.com/asifmahmud/banglahat-backend/internal/catalog"
	checkoutsvc "github.com/asifmahmud/banglahat-backend/internal/checkout"
	"github.com/asifmahmud/banglahat-backend/internal/geo"
	"github.com/asifmahmud/banglahat-backend/internal/orders"
	"github.com/asifmahmud/banglahat-backend/internal/promos"
	"github.com/asifmahmud/banglahat-backend/pkg/auth/session"
	"github.com/asifmahmud/banglahat-backend/pkg/config"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
	"github.com/asifmahmud/banglahat-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Database controllers.Pinger
	Redis    *redis.Client

	SessionChecker session.Checker
	Registry       *prometheus.Registry

	Geo      geo.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Orders   orders.Service
	Admin    admin.Service
	Catalog  catalog.Service
	Promos   promos.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(d.Database, d.Redis, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/geo", func(r chi.Router) {
			r.Get("/districts", controllers.GeoDistricts(d.Geo, logg))
			r.Get("/districts/{district}/thanas", controllers.GeoThanas(d.Geo, logg))
			r.Get("/delivery-fee", controllers.GeoDeliveryFee(d.Geo, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.ProductsList(d.Catalog, logg))
			r.Get("/products/{productId}", controllers.ProductDetail(d.Catalog, logg))
			r.Get("/categories", controllers.CategoriesList(d.Catalog, logg))
			r.Get("/offers", controllers.OffersList(d.Catalog, logg))
		})

		r.Post("/promos/apply", controllers.PromoApply(d.Promos, logg))

		r.Get("/orders/track/{trackingId}", controllers.OrderTrack(d.Orders, logg))
		r.Get("/support/whatsapp", controllers.SupportWhatsAppLink(cfg.Support, logg))

		// Everything below is keyed to the visitor's cart session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession())

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(d.Cart, logg))
				r.Delete("/", controllers.CartClear(d.Cart, logg))
				r.Post("/items", controllers.CartAddItem(d.Cart, logg))
				r.Put("/items/{lineId}", controllers.CartUpdateItem(d.Cart, logg))
				r.Delete("/items/{lineId}", controllers.CartRemoveItem(d.Cart, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutStart(d.Checkout, logg))
				r.Get("/{checkoutId}", controllers.CheckoutFetch(d.Checkout, logg))
				r.Put("/{checkoutId}/steps/{step}", controllers.CheckoutSubmitStep(d.Checkout, logg))
				r.Post("/{checkoutId}/back", controllers.CheckoutBack(d.Checkout, logg))
				r.With(middleware.Idempotency(d.Redis, logg)).
					Post("/{checkoutId}/confirm", controllers.CheckoutConfirm(d.Checkout, logg))
			})
		})
	})

	r.Route("/api/v1/admin/auth", func(r chi.Router) {
		r.Post("/login", controllers.AdminAuthLogin(d.Admin, logg))
		if !cfg.App.IsProd() {
			r.With(middleware.Idempotency(d.Redis, logg)).
				Post("/register", controllers.AdminAuthRegister(d.Admin, logg))
		}
		r.With(middleware.AdminAuth(cfg.JWT, d.SessionChecker, logg)).
			Post("/logout", controllers.AdminAuthLogout(d.Admin, logg))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.JWT, d.SessionChecker, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(d.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(d.Orders, logg))
			r.Patch("/{orderId}", controllers.AdminOrderSetStatus(d.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderSetStatus(d.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductsList(d.Catalog, logg))
			r.Post("/", controllers.AdminProductCreate(d.Catalog, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(d.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(d.Catalog, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCategoryCreate(d.Catalog, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(d.Catalog, logg))
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", controllers.AdminOffersList(d.Catalog, logg))
			r.Post("/", controllers.AdminOfferCreate(d.Catalog, logg))
			r.Put("/{offerId}", controllers.AdminOfferUpdate(d.Catalog, logg))
			r.Delete("/{offerId}", controllers.AdminOfferDelete(d.Catalog, logg))
		})

		r.Route("/promo-codes", func(r chi.Router) {
			r.Get("/", controllers.AdminPromosList(d.Promos, logg))
			r.Post("/", controllers.AdminPromoCreate(d.Promos, logg))
			r.Delete("/{promoId}", controllers.AdminPromoDelete(d.Promos, logg))
		})
	})

	return r
}
