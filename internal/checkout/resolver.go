package checkout

import (
	"context"
	"fmt"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressResolver confirms a shipping address exists and belongs to the
// requesting user. Existence without ownership is not enough: an address id
// lifted from another account must fail the same way a bogus id does.
type AddressResolver interface {
	Resolve(ctx context.Context, addressID string, userID primitive.ObjectID) (*model.Address, error)
}

type addressResolver struct {
	addresses repository.AddressRepository
	logger    zerolog.Logger
}

// NewAddressResolver creates a new address resolver.
func NewAddressResolver(addresses repository.AddressRepository, logger zerolog.Logger) AddressResolver {
	return &addressResolver{
		addresses: addresses,
		logger:    logger.With().Str("component", "address-resolver").Logger(),
	}
}

// Resolve returns the address or model.ErrInvalidAddress. No side effects.
func (r *addressResolver) Resolve(ctx context.Context, addressID string, userID primitive.ObjectID) (*model.Address, error) {
	id, err := primitive.ObjectIDFromHex(addressID)
	if err != nil {
		r.logger.Debug().Str("address_id", addressID).Msg("malformed address id")
		return nil, model.ErrInvalidAddress
	}

	address, err := r.addresses.FindOwnedByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address: %w", err)
	}

	if address == nil {
		r.logger.Debug().
			Str("address_id", addressID).
			Str("user_id", userID.Hex()).
			Msg("address missing or not owned by user")
		return nil, model.ErrInvalidAddress
	}

	return address, nil
}
