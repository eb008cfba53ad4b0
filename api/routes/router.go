package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vertilift/vertilift-backend/api/controllers"
	"github.com/vertilift/vertilift-backend/api/middleware"
	checkoutsvc "github.com/vertilift/vertilift-backend/internal/checkout"
	"github.com/vertilift/vertilift-backend/internal/orders"
	"github.com/vertilift/vertilift-backend/internal/quotes"
	"github.com/vertilift/vertilift-backend/pkg/config"
	"github.com/vertilift/vertilift-backend/pkg/db"
	"github.com/vertilift/vertilift-backend/pkg/logger"
	"github.com/vertilift/vertilift-backend/pkg/redis"
)

type RouterParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      redis.Client
	Quotes     quotes.Service
	Checkout   checkoutsvc.Service
	Orders     orders.Service
	PickupRepo checkoutsvc.PickupLocationRepository
}

// NewRouter wires the HTTP surface.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(),
		middleware.Identity(p.Config.JWT, p.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Logger, p.DB, p.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/checkout/context", controllers.CheckoutContext(p.Checkout, p.Logger))
		r.Post("/checkout/validate", controllers.ValidateOrder(p.Checkout, p.Logger))
		r.Get("/pickup-locations", controllers.ListPickupLocations(p.PickupRepo, p.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSignIn(p.Logger))
			r.Post("/checkout/orders", controllers.PlaceOrder(p.Checkout, p.Logger))
			r.Get("/orders", controllers.ListMyOrders(p.Orders, p.Logger))
			r.Get("/orders/{orderID}", controllers.GetMyOrder(p.Orders, p.Logger))

			r.Post("/quotes", controllers.RequestQuote(p.Quotes, p.Logger))
			r.Get("/quotes/{quoteID}", controllers.CustomerGetQuote(p.Quotes, p.Logger))
			r.Post("/quotes/{quoteID}/messages", controllers.CustomerSendMessage(p.Quotes, p.Logger))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(p.Logger))
		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", controllers.AdminListQuotes(p.Quotes, p.Logger))
			r.Route("/{quoteID}", func(r chi.Router) {
				r.Get("/", controllers.AdminGetQuote(p.Quotes, p.Logger))
				r.Post("/review", controllers.AdminStartReview(p.Quotes, p.Logger))
				r.Post("/approve", controllers.AdminApproveQuote(p.Quotes, p.Logger))
				r.Post("/reject", controllers.AdminRejectQuote(p.Quotes, p.Logger))
				r.Patch("/priority", controllers.AdminUpdatePriority(p.Quotes, p.Logger))
				r.Patch("/items/{itemID}/pricing", controllers.AdminUpdateItemPricing(p.Quotes, p.Logger))
				r.Post("/pricing/save", controllers.AdminSavePricing(p.Quotes, p.Logger))
				r.Post("/messages", controllers.AdminSendMessage(p.Quotes, p.Logger))
				r.Post("/convert", controllers.AdminConvertQuote(p.Quotes, p.Logger))
			})
		})
	})

	return r
}
