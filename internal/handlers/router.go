package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/config"
	"github.com/Lixing-Zhang/menuwal/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health    *HealthHandler
	Menu      *MenuHandler
	Order     *OrderHandler
	Rating    *RatingHandler
	Cart      *CartHandler
	Dashboard *DashboardHandler
}

// NewRouter wires middleware and routes
func NewRouter(h Handlers, cfg *config.Config, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.ServeHTTP)
	r.Get("/robots.txt", Robots(cfg.PublicBaseURL))

	r.Route("/api", func(r chi.Router) {
		r.Route("/menus/{slug}", func(r chi.Router) {
			r.Get("/", h.Menu.GetMenu)
			r.Post("/orders", h.Order.CreateOrder)
			r.Get("/ratings", h.Rating.GetStats)
			r.Post("/ratings", h.Rating.Submit)
			r.Post("/cart", h.Cart.Create)
		})

		r.Route("/cart/{cartId}", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Post("/items/{itemName}", h.Cart.Add)
			r.Post("/items/{itemName}/increment", h.Cart.Increment)
			r.Post("/items/{itemName}/decrement", h.Cart.Decrement)
			r.Post("/checkout", h.Cart.Checkout)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(middleware.OwnerAuth(cfg.Auth))
			r.Get("/orders", h.Dashboard.ListOrders)
			r.Patch("/orders/{orderId}", h.Dashboard.UpdateOrderStatus)
			r.Get("/ratings", h.Dashboard.ListRatings)
			r.Post("/images", h.Dashboard.UploadImage)
		})
	})

	return r
}
