package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository stores orders in the orders collection
type OrderRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewOrderRepository creates an order repository over db
func NewOrderRepository(db *mongo.Database, logger *slog.Logger) *OrderRepository {
	return &OrderRepository{coll: db.Collection(OrdersCollection), logger: logger}
}

// Create inserts the order and sets its ID
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	doc, err := newOrderDocument(order)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	order.ID = doc.ID.Hex()
	return nil
}

// Get fetches one order by ID
func (r *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrOrderNotFound
	}

	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}

	order, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByRestaurant returns a restaurant's orders newest first
func (r *OrderRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"restaurantId": restaurantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("skipping undecodable order", "error", err)
			continue
		}
		order, err := doc.toModel()
		if err != nil {
			r.logger.Warn("skipping malformed order", "error", err)
			continue
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus overwrites the status of an order
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrOrderNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrOrderNotFound
	}
	return nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
