package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
	"github.com/Lixing-Zhang/menuwal/internal/telemetry"
	"golang.org/x/sync/singleflight"
)

// ErrMenuNotFound is returned when no menu matches a slug
var ErrMenuNotFound = repository.ErrMenuNotFound

// menuListTimeout bounds the shared menu read that concurrent lookups wait on
const menuListTimeout = 10 * time.Second

var slugSeparators = strings.NewReplacer("-", " ", "_", " ")

// NormalizeSlug turns "the-keshvi-cafe" into "the keshvi cafe".
// No trimming: a slug with extra separators does not match.
func NormalizeSlug(slug string) string {
	return strings.ToLower(slugSeparators.Replace(slug))
}

// Slugify lowercases name and joins its words with "-"
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Shareable reports whether the slug of name resolves back to name. Names
// with "-", "_" or irregular spacing do not.
func Shareable(name string) bool {
	slug := Slugify(name)
	return slug != "" && NormalizeSlug(slug) == strings.ToLower(name)
}

// ShareURL is the public link to a menu's page. ok is false when the menu
// name cannot be reached through a slug.
func ShareURL(baseURL, menuName string) (link string, ok bool) {
	if !Shareable(menuName) {
		return "", false
	}
	return strings.TrimRight(baseURL, "/") + "/menu/" + url.PathEscape(Slugify(menuName)), true
}

// MenuService resolves menus by slug
type MenuService struct {
	menus   repository.MenuRepository
	views   repository.ViewRepository
	effects *Effects
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group
}

// NewMenuService creates a new menu service
func NewMenuService(menus repository.MenuRepository, views repository.ViewRepository, effects *Effects, logger *slog.Logger) *MenuService {
	return &MenuService{
		menus:   menus,
		views:   views,
		effects: effects,
		logger:  logger,
		now:     time.Now,
	}
}

// Lookup finds the menu for slug without recording a view.
// The scan is linear and the first matching menu wins.
func (s *MenuService) Lookup(ctx context.Context, slug string) (*models.Menu, error) {
	target := NormalizeSlug(slug)
	if target == "" {
		return nil, ErrMenuNotFound
	}

	menus, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	for i := range menus {
		m := menus[i]
		if strings.ToLower(m.Name) == target || (m.RestaurantName != "" && strings.ToLower(m.RestaurantName) == target) {
			return &m, nil
		}
	}
	return nil, ErrMenuNotFound
}

// Get finds a menu by its store ID
func (s *MenuService) Get(ctx context.Context, id string) (*models.Menu, error) {
	menus, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range menus {
		if menus[i].ID == id {
			m := menus[i]
			return &m, nil
		}
	}
	return nil, ErrMenuNotFound
}

// list loads every menu. Concurrent callers share one store read, which runs
// detached from any single caller's cancellation; each caller still stops
// waiting when its own ctx is done. The returned slice must not be modified.
func (s *MenuService) list(ctx context.Context) ([]models.Menu, error) {
	ch := s.group.DoChan("menus", func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), menuListTimeout)
		defer cancel()
		return s.menus.List(shared)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to list menus: %w", res.Err)
		}
		return res.Val.([]models.Menu), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to list menus: %w", ctx.Err())
	}
}

// Resolve finds the menu for slug and records the page view as a best-effort effect
func (s *MenuService) Resolve(ctx context.Context, slug string, view telemetry.ViewRequest) (*models.Menu, error) {
	menu, err := s.Lookup(ctx, slug)
	if err != nil {
		return nil, err
	}

	record := telemetry.NewView(menu, view, s.now())
	menuID := menu.ID

	s.effects.Go(ctx, "increment-menu-views", func(ctx context.Context) error {
		return s.menus.IncrementViews(ctx, menuID)
	})
	s.effects.Go(ctx, "record-menu-view", func(ctx context.Context) error {
		return s.views.Record(ctx, record)
	})

	s.logger.Debug("menu resolved", "slug", slug, "menu_id", menuID, "device", record.DeviceType)
	return menu, nil
}
