package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/cart"
	"github.com/Lixing-Zhang/menuwal/internal/handoff"
	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingCustomerField = errors.New("customer name, mobile and room/table number are required")
	ErrOrderingDisabled     = errors.New("this menu does not accept orders")
	ErrOrderNotPersisted    = errors.New("order could not be saved")
	ErrUnknownItem          = errors.New("item is not on the menu")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("order status change not allowed")
	ErrOrderNotFound        = repository.ErrOrderNotFound
)

// Notifier tells the restaurant about a placed order
type Notifier interface {
	NotifyOrder(ctx context.Context, menu *models.Menu, order *models.Order, message string) error
}

// EventPublisher announces placed orders to downstream consumers
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
}

// Receipt is the outcome of a checkout. Persisted is false when the order
// could not be saved but the hand-off went ahead anyway.
type Receipt struct {
	Order      *models.Order `json:"order"`
	Message    string        `json:"message"`
	HandoffURL string        `json:"handoffUrl"`
	Persisted  bool          `json:"persisted"`
}

// OrderService composes orders from carts and manages their status
type OrderService struct {
	orders         repository.OrderRepository
	effects        *Effects
	logger         *slog.Logger
	notifier       Notifier
	publisher      EventPublisher
	requirePersist bool
	now            func() time.Time
}

// OrderOption configures optional collaborators of an OrderService
type OrderOption func(*OrderService)

// WithNotifier sends every placed order to n as a best-effort effect
func WithNotifier(n Notifier) OrderOption {
	return func(s *OrderService) { s.notifier = n }
}

// WithPublisher publishes an event for every persisted order
func WithPublisher(p EventPublisher) OrderOption {
	return func(s *OrderService) { s.publisher = p }
}

// WithRequirePersist makes a failed save abort the checkout
func WithRequirePersist(require bool) OrderOption {
	return func(s *OrderService) { s.requirePersist = require }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

// NewOrderService creates a new order service
func NewOrderService(orders repository.OrderRepository, effects *Effects, logger *slog.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		orders:  orders,
		effects: effects,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Place turns the cart into a pending order, saves it and builds the
// WhatsApp hand-off. The cart is cleared once the order is handed off.
func (s *OrderService) Place(ctx context.Context, menu *models.Menu, c *cart.Cart, customer models.Customer) (*Receipt, error) {
	if !menu.AcceptsOrders() {
		return nil, ErrOrderingDisabled
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	customer, err := validateCustomer(customer)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		RestaurantID:    menu.RestaurantID,
		MenuID:          menu.ID,
		CustomerName:    customer.Name,
		CustomerMobile:  customer.Mobile,
		RoomTableNumber: customer.RoomTableNumber,
		Items:           c.LineItems(),
		Total:           c.Total(),
		CreatedAt:       s.now().UTC(),
		Status:          models.OrderStatusPending,
	}
	message := FormatOrderMessage(menu.Name, order)

	persisted := true
	if err := s.orders.Create(ctx, order); err != nil {
		persisted = false
		s.logger.Error("failed to save order", "menu_id", menu.ID, "restaurant_id", menu.RestaurantID, "error", err)
		if s.requirePersist {
			return nil, fmt.Errorf("%w: %v", ErrOrderNotPersisted, err)
		}
	}

	c.Clear()

	if s.notifier != nil {
		s.effects.Go(ctx, "notify-order", func(ctx context.Context) error {
			return s.notifier.NotifyOrder(ctx, menu, order, message)
		})
	}
	if s.publisher != nil && persisted {
		s.effects.Go(ctx, "publish-order-placed", func(ctx context.Context) error {
			return s.publisher.PublishOrderPlaced(ctx, order)
		})
	}

	s.logger.Info("order placed",
		"order_id", order.ID,
		"restaurant_id", order.RestaurantID,
		"items", len(order.Items),
		"total", order.Total.StringFixed(2),
		"persisted", persisted,
	)

	return &Receipt{
		Order:      order,
		Message:    message,
		HandoffURL: handoff.WhatsAppURL(menu.WhatsappNumber, message),
		Persisted:  persisted,
	}, nil
}

// PlaceItems places an order from an explicit item list. The list is replayed
// through a fresh cart so the same limit applies.
func (s *OrderService) PlaceItems(ctx context.Context, menu *models.Menu, req models.OrderRequest) (*Receipt, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	c, err := BuildCart(menu, req.Items)
	if err != nil {
		return nil, err
	}
	return s.Place(ctx, menu, c, req.Customer)
}

// BuildCart fills a new cart with the requested items from menu
func BuildCart(menu *models.Menu, items []models.OrderItem) (*cart.Cart, error) {
	c := cart.New()
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		item, ok := menu.FindItem(it.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownItem, it.Name)
		}

		remaining := it.Quantity
		if c.Quantity(item.Name) == 0 {
			if err := c.Add(item); err != nil {
				return nil, err
			}
			remaining--
		}
		for ; remaining > 0; remaining-- {
			if err := c.Increment(item); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func validateCustomer(c models.Customer) (models.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Mobile = strings.TrimSpace(c.Mobile)
	c.RoomTableNumber = strings.TrimSpace(c.RoomTableNumber)
	if c.Name == "" || c.Mobile == "" || c.RoomTableNumber == "" {
		return c, ErrMissingCustomerField
	}
	return c, nil
}

// FormatOrderMessage renders the order as the WhatsApp message sent to the restaurant
func FormatOrderMessage(menuName string, order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽️ *New Order from: %s*\n\n", menuName)
	fmt.Fprintf(&b, "👤 *Customer Name:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "📱 *Mobile:* %s\n", order.CustomerMobile)
	fmt.Fprintf(&b, "🏠 *Room/Table:* %s\n\n", order.RoomTableNumber)
	for i, li := range order.Items {
		fmt.Fprintf(&b, "%d. %s x%d - ₹%s\n", i+1, li.Name, li.Quantity, li.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\n💰 *Total: ₹%s*\n\nThank you for choosing us! 🙏", order.Total.StringFixed(2))
	return b.String()
}

// ParseStatusFilter accepts "", "all" or a known status
func ParseStatusFilter(raw string) (models.OrderStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return "", nil
	}
	status := models.OrderStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// ListOrders returns a restaurant's orders newest first. An empty status returns all.
func (s *OrderService) ListOrders(ctx context.Context, restaurantID string, status models.OrderStatus) ([]models.Order, error) {
	orders, err := s.orders.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if status == "" {
		return orders, nil
	}

	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// UpdateStatus moves an order of restaurantID to next if the transition is allowed.
// Orders of other restaurants are reported as not found.
func (s *OrderService) UpdateStatus(ctx context.Context, restaurantID, orderID string, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != restaurantID {
		return nil, ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = next

	s.logger.Info("order status updated", "order_id", orderID, "status", next)
	return order, nil
}
