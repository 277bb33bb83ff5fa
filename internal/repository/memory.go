package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/google/uuid"
)

// InMemoryMenuRepository implements MenuRepository with in-memory storage
type InMemoryMenuRepository struct {
	mu    sync.RWMutex
	menus []models.Menu
}

// NewInMemoryMenuRepository creates a menu repository holding the given menus.
// Menus without an ID are assigned one.
func NewInMemoryMenuRepository(menus ...models.Menu) *InMemoryMenuRepository {
	stored := make([]models.Menu, len(menus))
	copy(stored, menus)
	for i := range stored {
		if stored[i].ID == "" {
			stored[i].ID = uuid.New().String()
		}
	}
	return &InMemoryMenuRepository{menus: stored}
}

// List returns all menus
func (r *InMemoryMenuRepository) List(ctx context.Context) ([]models.Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	menus := make([]models.Menu, len(r.menus))
	copy(menus, r.menus)
	return menus, nil
}

// IncrementViews adds one to a menu's view counter
func (r *InMemoryMenuRepository) IncrementViews(ctx context.Context, menuID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.menus {
		if r.menus[i].ID == menuID {
			r.menus[i].ViewCount++
			return nil
		}
	}
	return ErrMenuNotFound
}

// InMemoryOrderRepository implements OrderRepository with in-memory storage
type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

// NewInMemoryOrderRepository creates an empty order repository
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{orders: make(map[string]models.Order)}
}

// Create stores the order, assigning an ID when it has none
func (r *InMemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	stored := *order
	stored.Items = append([]models.LineItem(nil), order.Items...)
	r.orders[order.ID] = stored
	return nil
}

// Get returns an order by ID
func (r *InMemoryOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// ListByRestaurant returns a restaurant's orders, newest first
func (r *InMemoryOrderRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, o := range r.orders {
		if o.RestaurantID == restaurantID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// UpdateStatus sets an order's status
func (r *InMemoryOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

// InMemoryRatingRepository implements RatingRepository with in-memory storage
type InMemoryRatingRepository struct {
	mu      sync.RWMutex
	ratings []models.Rating
}

// NewInMemoryRatingRepository creates a rating repository holding the given ratings
func NewInMemoryRatingRepository(ratings ...models.Rating) *InMemoryRatingRepository {
	return &InMemoryRatingRepository{ratings: append([]models.Rating(nil), ratings...)}
}

// Create stores a rating
func (r *InMemoryRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	r.ratings = append(r.ratings, *rating)
	return nil
}

// ListByRestaurant returns a restaurant's ratings, newest first
func (r *InMemoryRatingRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratings := make([]models.Rating, 0)
	for _, rt := range r.ratings {
		if rt.RestaurantID == restaurantID {
			ratings = append(ratings, rt)
		}
	}
	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].CreatedAt.After(ratings[j].CreatedAt)
	})
	return ratings, nil
}

// InMemoryViewRepository implements ViewRepository with in-memory storage
type InMemoryViewRepository struct {
	mu    sync.RWMutex
	views []models.MenuView
}

// NewInMemoryViewRepository creates an empty view repository
func NewInMemoryViewRepository() *InMemoryViewRepository {
	return &InMemoryViewRepository{}
}

// Record appends a view
func (r *InMemoryViewRepository) Record(ctx context.Context, view models.MenuView) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.views = append(r.views, view)
	return nil
}

// Views returns a copy of the recorded views
func (r *InMemoryViewRepository) Views() []models.MenuView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.MenuView(nil), r.views...)
}
