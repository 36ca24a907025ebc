package checkout

import (
	"context"
	"fmt"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Snapshot is the immutable product state captured from the validation read.
// Order items are priced from this snapshot, never from a later re-read, so
// a concurrent price change cannot alter what the order records.
type Snapshot struct {
	Name        string
	Description string
	Images      []string
	SKU         string
	Category    string
	Price       float64
}

// ValidationResult is the outcome of checking a requested line-item list
// against the live catalogue.
type ValidationResult struct {
	Valid bool
	// Errors accumulates every failing line, in input order. A single bad
	// line never short-circuits the rest, so the client can report all
	// problems at once.
	Errors []string
	// Snapshots holds the captured product state keyed by product id hex.
	Snapshots map[string]Snapshot
}

// InventoryValidator checks requested order lines against current product
// records.
type InventoryValidator interface {
	Validate(ctx context.Context, items []model.CheckoutItem) (*ValidationResult, error)
}

// inventoryValidator implements InventoryValidator against the product
// repository.
type inventoryValidator struct {
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewInventoryValidator creates a new inventory validator.
func NewInventoryValidator(products repository.ProductRepository, logger zerolog.Logger) InventoryValidator {
	return &inventoryValidator{
		products: products,
		logger:   logger.With().Str("component", "inventory-validator").Logger(),
	}
}

// Validate checks every line independently and accumulates all failures.
// Lookup errors count as validation failures for their line rather than
// aborting the whole check.
func (v *inventoryValidator) Validate(ctx context.Context, items []model.CheckoutItem) (*ValidationResult, error) {
	result := &ValidationResult{
		Snapshots: make(map[string]Snapshot, len(items)),
	}

	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Product not found: %s", item.ProductID))
			continue
		}

		product, err := v.products.FindByID(ctx, productID)
		if err != nil {
			v.logger.Warn().
				Err(err).
				Str("product_id", item.ProductID).
				Msg("product lookup failed during validation")
			result.Errors = append(result.Errors, fmt.Sprintf("Error validating product %s: %v", item.ProductID, err))
			continue
		}

		if product == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Product not found: %s", item.ProductID))
			continue
		}

		if !product.IsActive {
			result.Errors = append(result.Errors, fmt.Sprintf("Product is no longer active: %s", product.Name))
			continue
		}

		if product.Stock < item.Quantity {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Insufficient stock for %s: Available %d, requested %d",
				product.Name, product.Stock, item.Quantity))
		}

		// Snapshot from the exact read used for validation.
		result.Snapshots[item.ProductID] = Snapshot{
			Name:        product.Name,
			Description: product.Description,
			Images:      product.Images,
			SKU:         product.SKU,
			Category:    product.Category,
			Price:       product.Price,
		}
	}

	result.Valid = len(result.Errors) == 0

	return result, nil
}
