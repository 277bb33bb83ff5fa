package handlers

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/service"
	"github.com/Lixing-Zhang/menuwal/internal/telemetry"
)

var screenSizePattern = regexp.MustCompile(`^\d{2,5}x\d{2,5}$`)

// MenuHandler serves the public menu page data
type MenuHandler struct {
	menus   *service.MenuService
	ratings *service.RatingService
	baseURL string
	log     *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menus *service.MenuService, ratings *service.RatingService, baseURL string, log *slog.Logger) *MenuHandler {
	return &MenuHandler{
		menus:   menus,
		ratings: ratings,
		baseURL: baseURL,
		log:     log,
	}
}

// MenuResponse is the menu page payload. Categories is the filtered view of Menu.
type MenuResponse struct {
	Menu          *models.Menu        `json:"menu"`
	Categories    []models.Category   `json:"categories"`
	MatchCount    int                 `json:"matchCount"`
	AcceptsOrders bool                `json:"acceptsOrders"`
	ShareURL      string              `json:"shareUrl,omitempty"`
	Ratings       *models.RatingStats `json:"ratings,omitempty"`
}

// GetMenu handles GET /api/menus/{slug}?q=&category=&screen=WxH
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")

	screen := r.URL.Query().Get("screen")
	if !screenSizePattern.MatchString(screen) {
		screen = ""
	}

	menu, err := h.menus.Resolve(r.Context(), slug, telemetry.ViewRequest{
		UserAgent:  r.UserAgent(),
		Referrer:   r.Referer(),
		ScreenSize: screen,
		Language:   r.Header.Get("Accept-Language"),
	})
	if err != nil {
		writeServiceError(w, err, "failed to resolve menu", h.log, "slug", slug)
		return
	}

	categories := menu.Filter(r.URL.Query().Get("q"), r.URL.Query().Get("category"))
	resp := MenuResponse{
		Menu:          menu,
		Categories:    categories,
		MatchCount:    models.ItemCount(categories),
		AcceptsOrders: menu.AcceptsOrders(),
	}

	if link, ok := service.ShareURL(h.baseURL, menu.Name); ok {
		resp.ShareURL = link
	}

	stats, err := h.ratings.Stats(r.Context(), menu.RestaurantID)
	if err != nil {
		h.log.Warn("failed to load rating stats", "menu_id", menu.ID, "error", err)
	} else {
		resp.Ratings = &stats
	}

	WriteJSON(w, http.StatusOK, resp, h.log)
}
