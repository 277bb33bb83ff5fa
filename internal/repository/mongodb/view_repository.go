package mongodb

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

// ViewRepository appends view records to the menu_views collection
type ViewRepository struct {
	coll *mongo.Collection
}

func NewViewRepository(db *mongo.Database) *ViewRepository {
	return &ViewRepository{coll: db.Collection(ViewsCollection)}
}

// Record inserts the view keyed by its unique view ID
func (r *ViewRepository) Record(ctx context.Context, view models.MenuView) error {
	if _, err := r.coll.InsertOne(ctx, newViewDocument(view)); err != nil {
		return fmt.Errorf("failed to record view %s: %w", view.ID, err)
	}
	return nil
}

var _ repository.ViewRepository = (*ViewRepository)(nil)
