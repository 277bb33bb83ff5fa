package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/menuwal/internal/middleware"
	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/service"
	"github.com/Lixing-Zhang/menuwal/internal/storage"
)

// DashboardHandler serves the owner dashboard. Every route runs behind
// middleware.OwnerAuth, which scopes requests to one restaurant.
type DashboardHandler struct {
	orders   *service.OrderService
	ratings  *service.RatingService
	uploader storage.Uploader
	log      *slog.Logger
}

// NewDashboardHandler creates a dashboard handler. uploader may be nil when
// image storage is not configured.
func NewDashboardHandler(orders *service.OrderService, ratings *service.RatingService, uploader storage.Uploader, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{orders: orders, ratings: ratings, uploader: uploader, log: log}
}

// RatingsResponse lists a restaurant's ratings with their aggregate
type RatingsResponse struct {
	Ratings []models.Rating    `json:"ratings"`
	Stats   models.RatingStats `json:"stats"`
}

// UploadResponse carries the public URL of an uploaded image
type UploadResponse struct {
	URL string `json:"url"`
}

func (h *DashboardHandler) restaurant(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.RestaurantID(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", h.log)
	}
	return id, ok
}

// ListOrders handles GET /api/dashboard/orders?status=
func (h *DashboardHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurant(w, r)
	if !ok {
		return
	}

	status, err := service.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err, "invalid status filter", h.log)
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), restaurantID, status)
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.log, "restaurant_id", restaurantID)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// UpdateOrderStatus handles PATCH /api/dashboard/orders/{orderId}
func (h *DashboardHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurant(w, r)
	if !ok {
		return
	}
	orderID := pathParam(r, "orderId")

	var req models.StatusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, "failed to decode status update", h.log)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), restaurantID, orderID, req.Status)
	if err != nil {
		writeServiceError(w, err, "failed to update order status", h.log, "order_id", orderID)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// ListRatings handles GET /api/dashboard/ratings
func (h *DashboardHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurant(w, r)
	if !ok {
		return
	}

	ratings, stats, err := h.ratings.List(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, err, "failed to list ratings", h.log, "restaurant_id", restaurantID)
		return
	}

	WriteJSON(w, http.StatusOK, RatingsResponse{Ratings: ratings, Stats: stats}, h.log)
}

// UploadImage handles POST /api/dashboard/images (multipart field "file")
func (h *DashboardHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurant(w, r)
	if !ok {
		return
	}
	if h.uploader == nil {
		WriteError(w, http.StatusServiceUnavailable, "Image storage is not configured", h.log)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "Image is too large", h.log)
			return
		}
		h.log.Info("missing upload file", "error", err)
		WriteError(w, http.StatusBadRequest, "A file field is required", h.log)
		return
	}
	defer file.Close()

	if header.Size > storage.MaxImageSize {
		WriteError(w, http.StatusRequestEntityTooLarge, "Image is too large", h.log)
		return
	}

	// Trust the bytes, not the client's Content-Type
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeServiceError(w, err, "failed to read upload", h.log)
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	url, err := h.uploader.Upload(r.Context(), restaurantID, contentType, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		writeServiceError(w, err, "failed to upload image", h.log, "restaurant_id", restaurantID)
		return
	}

	h.log.Info("image uploaded", "restaurant_id", restaurantID, "url", url, "bytes", header.Size)
	WriteJSON(w, http.StatusCreated, UploadResponse{URL: url}, h.log)
}
