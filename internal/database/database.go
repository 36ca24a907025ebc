package database

import (
	"context"
	"fmt"
	"time"

	"boutique/internal/config"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CollectionProducts   = "products"
	CollectionAddresses  = "addresses"
	CollectionCarts      = "carts"
	CollectionOrders     = "orders"
	CollectionOrderItems = "order_items"
	CollectionUsers      = "users"
	CollectionAuditLogs  = "audit_logs"
)

// Connect creates a MongoDB client and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig, logger zerolog.Logger) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	logger.Info().
		Str("database", cfg.Database).
		Msg("connecting to mongodb")

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info().Msg("mongodb connection established")

	return client, nil
}

// EnsureIndexes creates the indexes the storefront relies on. Creation is
// idempotent; existing identical indexes are left untouched.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger zerolog.Logger) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionOrders: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "paymentStatus", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionOrderItems: {
			{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "productId", Value: 1}}},
		},
		CollectionCarts: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}}},
		},
		CollectionAddresses: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}},
			{
				// one default address per user and type
				Keys: bson.D{{Key: "userId", Value: 1}, {Key: "type", Value: 1}, {Key: "isDefault", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.D{{Key: "isDefault", Value: true}}),
			},
		},
		CollectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		CollectionAuditLogs: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
		logger.Debug().
			Str("collection", collection).
			Int("count", len(models)).
			Msg("indexes ensured")
	}

	logger.Info().Msg("database indexes ensured")

	return nil
}
