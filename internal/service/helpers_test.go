package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store unavailable")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func keshviMenu() models.Menu {
	return models.Menu{
		ID:             "menu-keshvi",
		Name:           "The Keshvi Cafe",
		RestaurantID:   "rest-1",
		WhatsappNumber: "+91 98765 43210",
		Categories: []models.Category{
			{Name: "Mains", Items: []models.MenuItem{
				{Name: "Pizza", Price: decimal.NewFromInt(250)},
				{Name: "Pasta", Price: decimal.RequireFromString("199.50")},
			}},
			{Name: "Drinks", Items: []models.MenuItem{
				{Name: "Coke", Price: decimal.NewFromInt(40)},
			}},
		},
	}
}

// failingOrderRepository rejects every write
type failingOrderRepository struct {
	repository.OrderRepository
}

func (failingOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return errStoreDown
}

// failingMenuRepository lists fine but cannot count views
type failingMenuRepository struct {
	*repository.InMemoryMenuRepository
}

func (failingMenuRepository) IncrementViews(ctx context.Context, menuID string) error {
	return errStoreDown
}

// flakyRatingRepository saves ratings but fails to list them
type flakyRatingRepository struct {
	*repository.InMemoryRatingRepository
}

func (flakyRatingRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Rating, error) {
	return nil, errStoreDown
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) NotifyOrder(ctx context.Context, menu *models.Menu, order *models.Order, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	orders []string
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, order.ID)
	return p.err
}

// gatedMenuRepository counts List calls and blocks each one until release is
// closed or its context is done
type gatedMenuRepository struct {
	*repository.InMemoryMenuRepository
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (r *gatedMenuRepository) List(ctx context.Context) ([]models.Menu, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	select {
	case <-r.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return r.InMemoryMenuRepository.List(ctx)
}

func (r *gatedMenuRepository) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
