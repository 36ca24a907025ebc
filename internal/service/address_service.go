package service

import (
	"context"
	"fmt"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// addressService implements AddressService.
type addressService struct {
	addresses repository.AddressRepository
	logger    zerolog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(addresses repository.AddressRepository, logger zerolog.Logger) AddressService {
	return &addressService{
		addresses: addresses,
		logger:    logger.With().Str("service", "address").Logger(),
	}
}

// List retrieves the user's addresses, default first.
func (s *addressService) List(ctx context.Context, userID primitive.ObjectID) ([]model.Address, error) {
	return s.addresses.ListByUser(ctx, userID)
}

// Create stores a new address. When the new address is marked default, the
// previous default for that user and type is demoted first.
func (s *addressService) Create(ctx context.Context, userID primitive.ObjectID, req *model.AddressRequest) (*model.Address, error) {
	if err := validateAddressRequest(req); err != nil {
		return nil, err
	}

	addrType := req.Type
	if addrType == "" {
		addrType = model.AddressTypeShipping
	}

	if req.IsDefault {
		if err := s.addresses.ClearDefaults(ctx, userID, addrType); err != nil {
			return nil, err
		}
	}

	address := &model.Address{
		UserID:       userID,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Country:      req.Country,
		City:         req.City,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		PostalCode:   req.PostalCode,
		IsDefault:    req.IsDefault,
		Type:         addrType,
	}

	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("address_id", address.ID.Hex()).
		Str("user_id", userID.Hex()).
		Bool("default", address.IsDefault).
		Msg("address created")

	return address, nil
}

func validateAddressRequest(req *model.AddressRequest) error {
	if req == nil {
		return fmt.Errorf("address request is nil")
	}

	required := map[string]string{
		"full name":      req.FullName,
		"phone":          req.Phone,
		"country":        req.Country,
		"city":           req.City,
		"address line 1": req.AddressLine1,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
	}

	if req.Type != "" && req.Type != model.AddressTypeShipping && req.Type != model.AddressTypeBilling {
		return fmt.Errorf("invalid address type: %s", req.Type)
	}

	return nil
}
