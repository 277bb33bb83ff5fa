package repository

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/menuwal/internal/models"
)

var (
	ErrMenuNotFound  = errors.New("menu not found")
	ErrOrderNotFound = errors.New("order not found")
)

// MenuRepository defines the interface for menu data access
type MenuRepository interface {
	// List returns every stored menu in store order
	List(ctx context.Context) ([]models.Menu, error)
	// IncrementViews bumps the view counter and last-viewed time of a menu
	IncrementViews(ctx context.Context, menuID string) error
}

// OrderRepository defines the interface for order data access.
// Orders are never deleted.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	// ListByRestaurant returns orders newest first
	ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
}

// RatingRepository defines the interface for rating data access.
// Ratings are create-only.
type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	// ListByRestaurant returns ratings newest first
	ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Rating, error)
}

// ViewRepository stores menu view telemetry
type ViewRepository interface {
	Record(ctx context.Context, view models.MenuView) error
}
