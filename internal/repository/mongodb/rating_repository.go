package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RatingRepository stores ratings in the ratings collection
type RatingRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewRatingRepository creates a rating repository over db
func NewRatingRepository(db *mongo.Database, logger *slog.Logger) *RatingRepository {
	return &RatingRepository{coll: db.Collection(RatingsCollection), logger: logger}
}

func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	doc := ratingDocument{
		ID:             primitive.NewObjectID(),
		RestaurantID:   rating.RestaurantID,
		CustomerName:   rating.CustomerName,
		CustomerMobile: rating.CustomerMobile,
		Rating:         rating.Value,
		Timestamp:      rating.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	rating.ID = doc.ID.Hex()
	return nil
}

// ListByRestaurant returns ratings newest first; out-of-range values are skipped
func (r *RatingRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Rating, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"restaurantId": restaurantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer cursor.Close(ctx)

	ratings := []models.Rating{}
	for cursor.Next(ctx) {
		var doc ratingDocument
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("skipping undecodable rating", "error", err)
			continue
		}
		rating, err := doc.toModel()
		if err != nil {
			r.logger.Warn("skipping malformed rating", "error", err)
			continue
		}
		ratings = append(ratings, rating)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}
	return ratings, nil
}

var _ repository.RatingRepository = (*RatingRepository)(nil)
