package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	MaxRequestBodySize int64
}

func NewRouter(cfg RouterConfig, menu *MenuHandler, order *OrderHandler, checker HealthChecker) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/healthcheck", HealthHandler(checker))

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", menu.GetActiveMenu)
		r.Post("/", menu.AddMenu)
		r.Post("/item", menu.AddMenuItem)
		r.Get("/item/{menuItemId}", menu.GetMenuItem)
		r.Get("/{menuId}", menu.GetMenuItems)
	})

	r.Route("/order", func(r chi.Router) {
		r.Get("/", order.GetOrder)
		r.Post("/", order.UpdateOrder)
		r.Get("/confirm-order", order.ConfirmOrder)
		r.Post("/addtoorder", order.AddToOrder)
		r.Route("/item", func(r chi.Router) {
			r.Get("/", order.GetOrderItems)
			r.Post("/", order.AddToOrder)
			r.Put("/", order.UpdateOrderItem)
			r.Delete("/", order.RemoveOrderItem)
			r.Get("/{menuItemId}", order.GetOrderItem)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
