package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	menus        *service.MenuService
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(menus *service.MenuService, orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		menus:        menus,
		orderService: orderService,
		log:          log,
	}
}

// CreateOrder handles POST /api/menus/{slug}/orders with an explicit item list
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")

	menu, err := h.menus.Lookup(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err, "failed to find menu for order", h.log, "slug", slug)
		return
	}

	var req models.OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, "failed to decode order request", h.log)
		return
	}

	receipt, err := h.orderService.PlaceItems(r.Context(), menu, req)
	if err != nil {
		writeServiceError(w, err, "failed to place order", h.log, "menu_id", menu.ID)
		return
	}

	WriteJSON(w, http.StatusCreated, receipt, h.log)
}
