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

// cartRepository implements CartRepository on MongoDB.
type cartRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewCartRepository creates a new MongoDB-backed cart repository.
func NewCartRepository(db *mongo.Database, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		collection: db.Collection(database.CollectionCarts),
		logger:     logger.With().Str("repository", "cart").Logger(),
	}
}

// ListByUser retrieves the user's cart rows.
func (r *cartRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	var items []model.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode cart documents")
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	return items, nil
}

// Add increments the quantity of a cart row, creating it if needed.
func (r *cartRepository) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	filter := bson.M{"userId": userID, "productId": productID}
	update := bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.Hex()).
			Str("product_id", productID.Hex()).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// Set replaces the quantity of a cart row, creating it if needed.
func (r *cartRepository) Set(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	filter := bson.M{"userId": userID, "productId": productID}
	update := bson.M{
		"$set": bson.M{"quantity": quantity, "updatedAt": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.Hex()).
			Str("product_id", productID.Hex()).
			Msg("failed to set cart item quantity")
		return fmt.Errorf("failed to set cart item quantity: %w", err)
	}

	return nil
}

// Remove deletes a single cart row.
func (r *cartRepository) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.Hex()).
			Str("product_id", productID.Hex()).
			Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// DeleteAllByUser deletes every cart row belonging to the user.
func (r *cartRepository) DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.Hex()).
			Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID.Hex()).
		Int64("deleted", result.DeletedCount).
		Msg("cart cleared")

	return nil
}
