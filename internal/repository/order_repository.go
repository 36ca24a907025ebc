package repository

import (
	"context"
	"fmt"
	"time"

	"boutique/internal/database"
	"boutique/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// orderRepository implements OrderRepository on MongoDB.
type orderRepository struct {
	orders *mongo.Collection
	items  *mongo.Collection
	logger zerolog.Logger
}

// NewOrderRepository creates a new MongoDB-backed order repository.
func NewOrderRepository(db *mongo.Database, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		orders: db.Collection(database.CollectionOrders),
		items:  db.Collection(database.CollectionOrderItems),
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Insert creates the order header and fills in its id.
func (r *orderRepository) Insert(ctx context.Context, order *model.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}

	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.Hex()).
			Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.Hex()).
		Msg("order inserted")

	return nil
}

// InsertItems creates all order lines in one batch.
func (r *orderRepository) InsertItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	docs := make([]interface{}, len(items))
	for i := range items {
		if items[i].ID.IsZero() {
			items[i].ID = primitive.NewObjectID()
		}
		docs[i] = items[i]
	}

	if _, err := r.items.InsertMany(ctx, docs); err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", items[0].OrderID.Hex()).
			Int("count", len(items)).
			Msg("failed to insert order items")
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items inserted")

	return nil
}

// FindByID retrieves an order header. Returns (nil, nil) when absent.
func (r *orderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	var order model.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			r.logger.Debug().Str("order_id", id.Hex()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.Hex()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &order, nil
}

// ItemsByOrder retrieves the lines of an order.
func (r *orderRepository) ItemsByOrder(ctx context.Context, orderID primitive.ObjectID) ([]model.OrderItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.items.Find(ctx, bson.M{"orderId": orderID}, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.Hex()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}

	var items []model.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode order item documents")
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}

	return items, nil
}

// ListAll retrieves every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, bson.M{})
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *orderRepository) list(ctx context.Context, filter bson.M) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode order documents")
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus sets the fulfilment status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}

	result, err := r.orders.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.Hex()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.MatchedCount == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}
