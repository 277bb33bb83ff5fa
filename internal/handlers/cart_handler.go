package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/menuwal/internal/cart"
	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/service"
	"github.com/shopspring/decimal"
)

// CartHandler exposes a server-held cart per customer session
type CartHandler struct {
	menus  *service.MenuService
	orders *service.OrderService
	carts  cart.Store
	log    *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(menus *service.MenuService, orders *service.OrderService, carts cart.Store, log *slog.Logger) *CartHandler {
	return &CartHandler{menus: menus, orders: orders, carts: carts, log: log}
}

// CartLine is one cart entry as shown to the customer
type CartLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the cart payload; totals are derived on every read
type CartView struct {
	ID       string          `json:"id"`
	MenuID   string          `json:"menuId"`
	Items    []CartLine      `json:"items"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
	MaxItems int             `json:"maxItems"`
}

func newCartView(s *cart.Session) CartView {
	entries := s.Cart.Entries()
	lines := make([]CartLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, CartLine{
			Name:     e.Item.Name,
			Price:    e.Item.Price,
			Quantity: e.Quantity,
			Subtotal: e.Item.Price.Mul(decimal.NewFromInt(int64(e.Quantity))),
		})
	}
	return CartView{
		ID:       s.ID,
		MenuID:   s.MenuID,
		Items:    lines,
		Count:    s.Cart.Count(),
		Total:    s.Cart.Total(),
		MaxItems: cart.MaxItems,
	}
}

// Create handles POST /api/menus/{slug}/cart
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")

	menu, err := h.menus.Lookup(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err, "failed to find menu for cart", h.log, "slug", slug)
		return
	}
	if !menu.AcceptsOrders() {
		writeServiceError(w, service.ErrOrderingDisabled, "cart requested for menu without ordering", h.log, "menu_id", menu.ID)
		return
	}

	sess := cart.NewSession(menu.ID)
	if err := h.carts.Save(r.Context(), sess); err != nil {
		writeServiceError(w, err, "failed to save cart", h.log, "menu_id", menu.ID)
		return
	}

	WriteJSON(w, http.StatusCreated, newCartView(sess), h.log)
}

// Get handles GET /api/cart/{cartId}
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.carts.Get(r.Context(), pathParam(r, "cartId"))
	if err != nil {
		writeServiceError(w, err, "failed to load cart", h.log)
		return
	}
	WriteJSON(w, http.StatusOK, newCartView(sess), h.log)
}

// Add handles POST /api/cart/{cartId}/items/{itemName}
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "add", (*cart.Cart).Add)
}

// Increment handles POST /api/cart/{cartId}/items/{itemName}/increment
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "increment", (*cart.Cart).Increment)
}

// Decrement handles POST /api/cart/{cartId}/items/{itemName}/decrement
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "decrement", (*cart.Cart).Decrement)
}

// mutate loads the session, applies op for the named menu item and saves the
// cart only if op succeeded.
func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, opName string, op func(*cart.Cart, models.MenuItem) error) {
	ctx := r.Context()
	itemName := pathParam(r, "itemName")

	sess, menu, err := h.load(ctx, pathParam(r, "cartId"))
	if err != nil {
		writeServiceError(w, err, "failed to load cart", h.log)
		return
	}

	item, ok := menu.FindItem(itemName)
	if !ok {
		writeServiceError(w, fmt.Errorf("%w: %q", service.ErrUnknownItem, itemName), "cart item not on menu", h.log, "menu_id", menu.ID)
		return
	}

	if err := op(sess.Cart, item); err != nil {
		writeServiceError(w, err, "cart "+opName+" rejected", h.log, "cart_id", sess.ID, "item", itemName)
		return
	}

	if err := h.carts.Save(ctx, sess); err != nil {
		writeServiceError(w, err, "failed to save cart", h.log, "cart_id", sess.ID)
		return
	}

	WriteJSON(w, http.StatusOK, newCartView(sess), h.log)
}

// Checkout handles POST /api/cart/{cartId}/checkout with the customer details
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, menu, err := h.load(ctx, pathParam(r, "cartId"))
	if err != nil {
		writeServiceError(w, err, "failed to load cart", h.log)
		return
	}

	var customer models.Customer
	if err := decodeJSON(w, r, &customer); err != nil {
		writeServiceError(w, err, "failed to decode checkout request", h.log)
		return
	}

	receipt, err := h.orders.Place(ctx, menu, sess.Cart, customer)
	if err != nil {
		writeServiceError(w, err, "checkout failed", h.log, "cart_id", sess.ID)
		return
	}

	if err := h.carts.Delete(ctx, sess.ID); err != nil {
		h.log.Warn("failed to delete checked out cart", "cart_id", sess.ID, "error", err)
		// Place cleared the cart; store that so a retry cannot order it again.
		if err := h.carts.Save(ctx, sess); err != nil {
			h.log.Error("failed to clear checked out cart", "cart_id", sess.ID, "error", err)
		}
	}

	WriteJSON(w, http.StatusCreated, receipt, h.log)
}

func (h *CartHandler) load(ctx context.Context, cartID string) (*cart.Session, *models.Menu, error) {
	sess, err := h.carts.Get(ctx, cartID)
	if err != nil {
		return nil, nil, err
	}
	menu, err := h.menus.Get(ctx, sess.MenuID)
	if err != nil {
		return nil, nil, err
	}
	return sess, menu, nil
}
