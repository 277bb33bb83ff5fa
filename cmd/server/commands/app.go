package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/Lixing-Zhang/menuwal/internal/cart"
	"github.com/Lixing-Zhang/menuwal/internal/config"
	"github.com/Lixing-Zhang/menuwal/internal/events"
	"github.com/Lixing-Zhang/menuwal/internal/handlers"
	"github.com/Lixing-Zhang/menuwal/internal/handoff"
	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
	"github.com/Lixing-Zhang/menuwal/internal/repository/mongodb"
	"github.com/Lixing-Zhang/menuwal/internal/service"
	"github.com/Lixing-Zhang/menuwal/internal/storage"
	"github.com/redis/go-redis/v9"
)

// app is the wired server: router plus everything that must be released on shutdown
type app struct {
	router  http.Handler
	effects *service.Effects
	closers []func(context.Context) error
}

type repositories struct {
	menus   repository.MenuRepository
	orders  repository.OrderRepository
	ratings repository.RatingRepository
	views   repository.ViewRepository
}

// newApp connects the configured backends and builds the router.
// Optional integrations that fail to start are logged and left out.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, seed []models.Menu) (*app, error) {
	a := &app{effects: service.NewEffects(log, cfg.Effects.Timeout())}
	checks := map[string]handlers.Check{}

	repos, err := a.openRepositories(ctx, cfg, log, seed, checks)
	if err != nil {
		a.close(context.Background(), log)
		return nil, err
	}

	carts, err := a.openCartStore(ctx, cfg, checks)
	if err != nil {
		a.close(context.Background(), log)
		return nil, err
	}

	orderOpts := []service.OrderOption{service.WithRequirePersist(cfg.Order.RequirePersist)}

	if cfg.Telegram.Enabled() {
		dashboardURL := strings.TrimRight(cfg.PublicBaseURL, "/") + "/dashboard/orders"
		notifier, err := handoff.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, dashboardURL)
		if err != nil {
			log.Error("telegram notifications disabled", "error", err)
		} else {
			orderOpts = append(orderOpts, service.WithNotifier(notifier))
			log.Info("telegram notifications enabled", "chat_id", cfg.Telegram.ChatID)
		}
	}

	if cfg.AMQP.Enabled() {
		conn, ch, err := events.SetupConn(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Error("order events disabled", "error", err)
		} else {
			a.closers = append(a.closers,
				func(context.Context) error { return ch.Close() },
				func(context.Context) error { return conn.Close() },
			)
			checks["amqp"] = func(context.Context) error {
				if conn.IsClosed() {
					return errors.New("connection closed")
				}
				return nil
			}
			orderOpts = append(orderOpts, service.WithPublisher(events.NewRabbitPublisher(ch, cfg.AMQP.Exchange)))
			log.Info("order events enabled", "exchange", cfg.AMQP.Exchange)
		}
	}

	var uploader storage.Uploader
	if cfg.Storage.Enabled() {
		s3u, err := storage.NewS3Uploader(ctx, storage.Options{
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			Bucket:        cfg.Storage.Bucket,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			log.Error("image uploads disabled", "error", err)
		} else {
			uploader = s3u
		}
	}

	menuService := service.NewMenuService(repos.menus, repos.views, a.effects, log)
	orderService := service.NewOrderService(repos.orders, a.effects, log, orderOpts...)
	ratingService := service.NewRatingService(repos.ratings, log)

	a.router = handlers.NewRouter(handlers.Handlers{
		Health:    handlers.NewHealthHandler(log, version, checks),
		Menu:      handlers.NewMenuHandler(menuService, ratingService, cfg.PublicBaseURL, log),
		Order:     handlers.NewOrderHandler(menuService, orderService, log),
		Rating:    handlers.NewRatingHandler(menuService, ratingService, log),
		Cart:      handlers.NewCartHandler(menuService, orderService, carts, log),
		Dashboard: handlers.NewDashboardHandler(orderService, ratingService, uploader, log),
	}, cfg, log)

	return a, nil
}

func (a *app) openRepositories(ctx context.Context, cfg *config.Config, log *slog.Logger, seed []models.Menu, checks map[string]handlers.Check) (*repositories, error) {
	if cfg.Store.Driver != config.StoreMongo {
		log.Info("using in-memory store", "menus", len(seed))
		return &repositories{
			menus:   repository.NewInMemoryMenuRepository(seed...),
			orders:  repository.NewInMemoryOrderRepository(),
			ratings: repository.NewInMemoryRatingRepository(),
			views:   repository.NewInMemoryViewRepository(),
		}, nil
	}

	client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Disconnect)
	checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	db := client.Database(cfg.Mongo.Database)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Warn("failed to ensure indexes", "error", err)
	}
	if len(seed) > 0 {
		log.Warn("ignoring --menus seed file, menus are read from MongoDB")
	}

	log.Info("using MongoDB store", "database", cfg.Mongo.Database)
	return &repositories{
		menus:   mongodb.NewMenuRepository(db, log),
		orders:  mongodb.NewOrderRepository(db, log),
		ratings: mongodb.NewRatingRepository(db, log),
		views:   mongodb.NewViewRepository(db),
	}, nil
}

func (a *app) openCartStore(ctx context.Context, cfg *config.Config, checks map[string]handlers.Check) (cart.Store, error) {
	if !cfg.Redis.Enabled() {
		return cart.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	return cart.NewRedisStore(rdb, cfg.Redis.KeyPrefix, cfg.Redis.CartTTL()), nil
}

// close drains pending effects, then releases connections in reverse order
func (a *app) close(ctx context.Context, log *slog.Logger) {
	if err := a.effects.Wait(ctx); err != nil {
		log.Warn("pending effects abandoned", "error", err)
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Warn("failed to release resource", "error", err)
		}
	}
}

// loadMenus reads a JSON array of menus for the in-memory store
func loadMenus(path string) ([]models.Menu, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menus file: %w", err)
	}
	var menus []models.Menu
	if err := json.Unmarshal(data, &menus); err != nil {
		return nil, fmt.Errorf("failed to parse menus file %s: %w", path, err)
	}
	for i, m := range menus {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("menu %d in %s has no name", i, path)
		}
	}
	return menus, nil
}
