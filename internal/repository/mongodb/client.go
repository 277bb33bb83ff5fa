// Package mongodb implements the repositories on a MongoDB document store.
// Records are decoded into explicit document types and validated before they
// become domain models; malformed records are skipped and logged.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MenusCollection   = "menus"
	OrdersCollection  = "orders"
	RatingsCollection = "ratings"
	ViewsCollection   = "menu_views"
)

// Connect opens a client and verifies the primary is reachable
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the dashboard queries rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	byRestaurantNewest := mongo.IndexModel{
		Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "timestamp", Value: -1}},
	}

	for _, name := range []string{OrdersCollection, RatingsCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, byRestaurantNewest); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}

	viewsByMenu := mongo.IndexModel{
		Keys: bson.D{{Key: "menuId", Value: 1}, {Key: "timestamp", Value: -1}},
	}
	if _, err := db.Collection(ViewsCollection).Indexes().CreateOne(ctx, viewsByMenu); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", ViewsCollection, err)
	}
	return nil
}
