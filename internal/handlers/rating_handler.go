package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/service"
)

// RatingHandler serves public rating stats and accepts new ratings
type RatingHandler struct {
	menus   *service.MenuService
	ratings *service.RatingService
	log     *slog.Logger
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(menus *service.MenuService, ratings *service.RatingService, log *slog.Logger) *RatingHandler {
	return &RatingHandler{menus: menus, ratings: ratings, log: log}
}

// GetStats handles GET /api/menus/{slug}/ratings.
// Only aggregates are public; customer details stay on the dashboard.
func (h *RatingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")

	menu, err := h.menus.Lookup(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err, "failed to find menu for ratings", h.log, "slug", slug)
		return
	}

	stats, err := h.ratings.Stats(r.Context(), menu.RestaurantID)
	if err != nil {
		writeServiceError(w, err, "failed to load ratings", h.log, "restaurant_id", menu.RestaurantID)
		return
	}

	WriteJSON(w, http.StatusOK, stats, h.log)
}

// Submit handles POST /api/menus/{slug}/ratings
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")

	menu, err := h.menus.Lookup(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err, "failed to find menu for rating", h.log, "slug", slug)
		return
	}

	var req models.RatingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, "failed to decode rating request", h.log)
		return
	}

	result, err := h.ratings.Submit(r.Context(), menu.RestaurantID, req)
	if err != nil {
		writeServiceError(w, err, "failed to submit rating", h.log, "restaurant_id", menu.RestaurantID)
		return
	}

	WriteJSON(w, http.StatusCreated, result, h.log)
}
