package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/cart"
	"github.com/Lixing-Zhang/menuwal/internal/config"
	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
	"github.com/Lixing-Zhang/menuwal/internal/service"
	"github.com/Lixing-Zhang/menuwal/internal/storage"
	"github.com/Lixing-Zhang/menuwal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const ownerKey = "ownertest"

type testEnv struct {
	router  http.Handler
	orders  *repository.InMemoryOrderRepository
	ratings *repository.InMemoryRatingRepository
	views   *repository.InMemoryViewRepository
	effects *service.Effects
}

type fakeUploader struct {
	contentType string
	body        []byte
}

func (f *fakeUploader) Upload(ctx context.Context, restaurantID, contentType string, body io.Reader) (string, error) {
	if _, err := storage.ObjectKey(restaurantID, contentType); err != nil {
		return "", err
	}
	f.contentType = contentType
	f.body, _ = io.ReadAll(body)
	return "https://cdn.test/menus/" + restaurantID + "/img", nil
}

func testMenus() []models.Menu {
	return []models.Menu{
		{
			ID:             "menu-keshvi",
			Name:           "The Keshvi Cafe",
			RestaurantID:   "rest-1",
			WhatsappNumber: "+91 98765 43210",
			Categories: []models.Category{
				{Name: "Mains", Items: []models.MenuItem{
					{Name: "Pizza", Description: "Cheese burst", Price: decimal.NewFromInt(250)},
					{Name: "Pasta", Description: "Arrabbiata", Price: decimal.NewFromInt(200)},
				}},
				{Name: "Drinks", Items: []models.MenuItem{
					{Name: "Coke", Description: "Chilled", Price: decimal.NewFromInt(40)},
				}},
			},
		},
		{
			ID:           "menu-browse",
			Name:         "Browse Only",
			RestaurantID: "rest-2",
		},
	}
}

func newTestEnv(t *testing.T, uploader storage.Uploader) *testEnv {
	t.Helper()
	return newTestEnvWithCarts(t, uploader, cart.NewMemoryStore())
}

func newTestEnvWithCarts(t *testing.T, uploader storage.Uploader, carts cart.Store) *testEnv {
	t.Helper()
	log := logger.New("error")

	menuRepo := repository.NewInMemoryMenuRepository(testMenus()...)
	env := &testEnv{
		orders:  repository.NewInMemoryOrderRepository(),
		ratings: repository.NewInMemoryRatingRepository(),
		views:   repository.NewInMemoryViewRepository(),
		effects: service.NewEffects(log, time.Second),
	}

	menus := service.NewMenuService(menuRepo, env.views, env.effects, log)
	orders := service.NewOrderService(env.orders, env.effects, log)
	ratings := service.NewRatingService(env.ratings, log)

	cfg := &config.Config{
		Server:        config.ServerConfig{AllowedOrigins: []string{"*"}},
		Auth:          config.AuthConfig{OwnerKeys: map[string]string{ownerKey: "rest-1"}},
		PublicBaseURL: "https://menuwal.online",
	}

	env.router = NewRouter(Handlers{
		Health:    NewHealthHandler(log, "test", nil),
		Menu:      NewMenuHandler(menus, ratings, cfg.PublicBaseURL, log),
		Order:     NewOrderHandler(menus, orders, log),
		Rating:    NewRatingHandler(menus, ratings, log),
		Cart:      NewCartHandler(menus, orders, carts, log),
		Dashboard: NewDashboardHandler(orders, ratings, uploader, log),
	}, cfg, log)

	t.Cleanup(func() { _ = env.effects.Wait(context.Background()) })
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), "body: %s", w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	decodeBody(t, w, &resp)
	return resp["error"]
}

var ashaCustomer = models.Customer{Name: "Asha", Mobile: "9999999999", RoomTableNumber: "T3"}
