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

// addressRepository implements AddressRepository on MongoDB.
type addressRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewAddressRepository creates a new MongoDB-backed address repository.
func NewAddressRepository(db *mongo.Database, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		collection: db.Collection(database.CollectionAddresses),
		logger:     logger.With().Str("repository", "address").Logger(),
	}
}

// FindOwnedByID retrieves an address only when it belongs to the given user.
// The ownership check is part of the query filter, so an address id belonging
// to another account behaves exactly like a missing one.
func (r *addressRepository) FindOwnedByID(ctx context.Context, id, userID primitive.ObjectID) (*model.Address, error) {
	var address model.Address
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&address)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			r.logger.Debug().
				Str("address_id", id.Hex()).
				Str("user_id", userID.Hex()).
				Msg("address not found for user")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.Hex()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return &address, nil
}

// ListByUser retrieves a user's addresses, default first, newest first.
func (r *addressRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Address, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "isDefault", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}

	var addresses []model.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode address documents")
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}

	return addresses, nil
}

// Create inserts a new address and fills in its id.
func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	if address.ID.IsZero() {
		address.ID = primitive.NewObjectID()
	}
	if address.CreatedAt.IsZero() {
		address.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, address); err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", address.UserID.Hex()).
			Msg("failed to insert address")
		return fmt.Errorf("failed to insert address: %w", err)
	}

	return nil
}

// ClearDefaults unsets the default flag on the user's addresses of the given type.
func (r *addressRepository) ClearDefaults(ctx context.Context, userID primitive.ObjectID, addrType model.AddressType) error {
	filter := bson.M{"userId": userID, "type": addrType, "isDefault": true}
	update := bson.M{"$set": bson.M{"isDefault": false}}

	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.Hex()).
			Str("type", string(addrType)).
			Msg("failed to clear default addresses")
		return fmt.Errorf("failed to clear default addresses: %w", err)
	}

	return nil
}
