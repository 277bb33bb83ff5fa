package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MenuRepository reads menus from the menus collection
type MenuRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMenuRepository creates a menu repository over db
func NewMenuRepository(db *mongo.Database, logger *slog.Logger) *MenuRepository {
	return &MenuRepository{coll: db.Collection(MenusCollection), logger: logger}
}

// List returns every well-formed menu in natural order
func (r *MenuRepository) List(ctx context.Context) ([]models.Menu, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}
	defer cursor.Close(ctx)

	var menus []models.Menu
	for cursor.Next(ctx) {
		var doc menuDocument
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("skipping undecodable menu", "error", err)
			continue
		}
		menu, err := doc.toModel()
		if err != nil {
			r.logger.Warn("skipping malformed menu", "error", err)
			continue
		}
		menus = append(menus, menu)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menus: %w", err)
	}
	return menus, nil
}

// IncrementViews bumps viewCount and stamps lastViewed
func (r *MenuRepository) IncrementViews(ctx context.Context, menuID string) error {
	update := bson.M{
		"$inc":         bson.M{"viewCount": 1},
		"$currentDate": bson.M{"lastViewed": true},
	}
	res, err := r.coll.UpdateOne(ctx, idFilter(menuID), update)
	if err != nil {
		return fmt.Errorf("failed to increment views for menu %s: %w", menuID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrMenuNotFound
	}
	return nil
}

var _ repository.MenuRepository = (*MenuRepository)(nil)
