package repository

import (
	"context"
	"fmt"

	"boutique/internal/database"
	"boutique/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// productRepository implements ProductRepository on MongoDB.
type productRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewProductRepository creates a new MongoDB-backed product repository.
func NewProductRepository(db *mongo.Database, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		collection: db.Collection(database.CollectionProducts),
		logger:     logger.With().Str("repository", "product").Logger(),
	}
}

// FindByID retrieves a single product. Returns (nil, nil) when absent.
func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var product model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			r.logger.Debug().Str("product_id", id.Hex()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.Hex()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &product, nil
}

// FindByIDs retrieves multiple products by their ids.
func (r *productRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by ids")
		return nil, fmt.Errorf("failed to query products by ids: %w", err)
	}

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode product documents")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}
