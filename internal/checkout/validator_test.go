package checkout

import (
	"context"
	"errors"
	"testing"

	"boutique/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func TestInventoryValidator_AllLinesValid(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	validator := NewInventoryValidator(repo, zerolog.Nop())

	id1 := primitive.NewObjectID()
	id2 := primitive.NewObjectID()

	repo.On("FindByID", ctx, id1).Return(&model.Product{
		ID: id1, Name: "Linen Shirt", Price: 49.90, Stock: 10, IsActive: true,
		Images: []string{"shirt.jpg"}, SKU: "LS-1", Category: "apparel",
	}, nil)
	repo.On("FindByID", ctx, id2).Return(&model.Product{
		ID: id2, Name: "Wool Scarf", Price: 24.50, Stock: 3, IsActive: true,
	}, nil)

	result, err := validator.Validate(ctx, []model.CheckoutItem{
		{ProductID: id1.Hex(), Quantity: 2},
		{ProductID: id2.Hex(), Quantity: 3},
	})

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Snapshots, 2)

	snap := result.Snapshots[id1.Hex()]
	assert.Equal(t, "Linen Shirt", snap.Name)
	assert.Equal(t, 49.90, snap.Price)
	assert.Equal(t, []string{"shirt.jpg"}, snap.Images)
	assert.Equal(t, "LS-1", snap.SKU)

	repo.AssertExpectations(t)
}

func TestInventoryValidator_AccumulatesAllFailures(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	validator := NewInventoryValidator(repo, zerolog.Nop())

	missing := primitive.NewObjectID()
	inactive := primitive.NewObjectID()
	lowStock := primitive.NewObjectID()

	repo.On("FindByID", ctx, missing).Return(nil, nil)
	repo.On("FindByID", ctx, inactive).Return(&model.Product{
		ID: inactive, Name: "Discontinued Hat", Price: 9.99, Stock: 20, IsActive: false,
	}, nil)
	repo.On("FindByID", ctx, lowStock).Return(&model.Product{
		ID: lowStock, Name: "Canvas Tote", Price: 15.00, Stock: 1, IsActive: true,
	}, nil)

	result, err := validator.Validate(ctx, []model.CheckoutItem{
		{ProductID: missing.Hex(), Quantity: 1},
		{ProductID: inactive.Hex(), Quantity: 1},
		{ProductID: lowStock.Hex(), Quantity: 5},
	})

	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "Product not found: "+missing.Hex(), result.Errors[0])
	assert.Equal(t, "Product is no longer active: Discontinued Hat", result.Errors[1])
	assert.Equal(t, "Insufficient stock for Canvas Tote: Available 1, requested 5", result.Errors[2])

	// a found, active product keeps its snapshot even when stock is short
	assert.Contains(t, result.Snapshots, lowStock.Hex())
	assert.NotContains(t, result.Snapshots, missing.Hex())
	assert.NotContains(t, result.Snapshots, inactive.Hex())
}

func TestInventoryValidator_MalformedIDIsNotFound(t *testing.T) {
	repo := new(MockProductRepository)
	validator := NewInventoryValidator(repo, zerolog.Nop())

	result, err := validator.Validate(context.Background(), []model.CheckoutItem{
		{ProductID: "not-a-hex-id", Quantity: 1},
	})

	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Product not found: not-a-hex-id", result.Errors[0])
	repo.AssertNotCalled(t, "FindByID")
}

func TestInventoryValidator_LookupErrorBecomesLineError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	validator := NewInventoryValidator(repo, zerolog.Nop())

	broken := primitive.NewObjectID()
	healthy := primitive.NewObjectID()

	repo.On("FindByID", ctx, broken).Return(nil, errors.New("connection reset"))
	repo.On("FindByID", ctx, healthy).Return(&model.Product{
		ID: healthy, Name: "Silk Tie", Price: 30.00, Stock: 5, IsActive: true,
	}, nil)

	result, err := validator.Validate(ctx, []model.CheckoutItem{
		{ProductID: broken.Hex(), Quantity: 1},
		{ProductID: healthy.Hex(), Quantity: 1},
	})

	// a lookup failure marks its line invalid without aborting the rest
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Error validating product "+broken.Hex())
	assert.Contains(t, result.Snapshots, healthy.Hex())
}
