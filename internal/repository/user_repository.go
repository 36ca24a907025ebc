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

// userRepository implements UserRepository on MongoDB.
type userRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewUserRepository creates a new MongoDB-backed user repository.
func NewUserRepository(db *mongo.Database, logger zerolog.Logger) UserRepository {
	return &userRepository{
		collection: db.Collection(database.CollectionUsers),
		logger:     logger.With().Str("repository", "user").Logger(),
	}
}

// FindByID retrieves a user. Returns (nil, nil) when absent.
func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			r.logger.Debug().Str("user_id", id.Hex()).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.Hex()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
