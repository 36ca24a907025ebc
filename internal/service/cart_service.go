package service

import (
	"context"
	"fmt"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cartService implements CartService.
type cartService struct {
	carts  repository.CartRepository
	logger zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts repository.CartRepository, logger zerolog.Logger) CartService {
	return &cartService{
		carts:  carts,
		logger: logger.With().Str("service", "cart").Logger(),
	}
}

// List retrieves the user's cart rows.
func (s *cartService) List(ctx context.Context, userID primitive.ObjectID) ([]model.CartItem, error) {
	return s.carts.ListByUser(ctx, userID)
}

// Apply performs one cart mutation. Setting a non-positive quantity removes
// the row; add without a quantity increments by one.
func (s *cartService) Apply(ctx context.Context, userID primitive.ObjectID, req *model.CartRequest) error {
	if req == nil {
		return fmt.Errorf("cart request is nil")
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return model.ErrProductNotFound
	}

	switch req.Action {
	case model.CartActionRemove:
		return s.carts.Remove(ctx, userID, productID)

	case model.CartActionSet:
		if req.Quantity <= 0 {
			return s.carts.Remove(ctx, userID, productID)
		}
		if req.Quantity > model.MaxCartQuantity {
			return model.ErrInvalidQuantity
		}
		return s.carts.Set(ctx, userID, productID, req.Quantity)

	default:
		// add, or any unspecified action, increments
		quantity := req.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		if quantity > model.MaxCartQuantity {
			return model.ErrInvalidQuantity
		}
		return s.carts.Add(ctx, userID, productID, quantity)
	}
}

// Clear deletes all of the user's cart rows.
func (s *cartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.carts.DeleteAllByUser(ctx, userID)
}
