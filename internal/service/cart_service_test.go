package service

import (
	"context"
	"testing"

	"boutique/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartRepository) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) Set(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestCartService_Apply(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	t.Run("add increments", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, zerolog.Nop())
		repo.On("Add", ctx, userID, productID, 3).Return(nil)

		err := svc.Apply(ctx, userID, &model.CartRequest{
			ProductID: productID.Hex(), Quantity: 3, Action: model.CartActionAdd,
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("add without quantity defaults to one", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, zerolog.Nop())
		repo.On("Add", ctx, userID, productID, 1).Return(nil)

		err := svc.Apply(ctx, userID, &model.CartRequest{ProductID: productID.Hex()})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("set replaces quantity", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, zerolog.Nop())
		repo.On("Set", ctx, userID, productID, 5).Return(nil)

		err := svc.Apply(ctx, userID, &model.CartRequest{
			ProductID: productID.Hex(), Quantity: 5, Action: model.CartActionSet,
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("set to zero removes", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, zerolog.Nop())
		repo.On("Remove", ctx, userID, productID).Return(nil)

		err := svc.Apply(ctx, userID, &model.CartRequest{
			ProductID: productID.Hex(), Quantity: 0, Action: model.CartActionSet,
		})

		require.NoError(t, err)
		repo.AssertNotCalled(t, "Set")
	})

	t.Run("remove", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, zerolog.Nop())
		repo.On("Remove", ctx, userID, productID).Return(nil)

		err := svc.Apply(ctx, userID, &model.CartRequest{
			ProductID: productID.Hex(), Action: model.CartActionRemove,
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("quantity over limit", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, zerolog.Nop())

		err := svc.Apply(ctx, userID, &model.CartRequest{
			ProductID: productID.Hex(), Quantity: 1000, Action: model.CartActionSet,
		})

		assert.ErrorIs(t, err, model.ErrInvalidQuantity)
		repo.AssertNotCalled(t, "Set")
	})

	t.Run("malformed product id", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, zerolog.Nop())

		err := svc.Apply(ctx, userID, &model.CartRequest{ProductID: "garbage"})

		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	repo := new(MockCartRepository)
	svc := NewCartService(repo, zerolog.Nop())
	repo.On("DeleteAllByUser", ctx, userID).Return(nil)

	require.NoError(t, svc.Clear(ctx, userID))
	repo.AssertExpectations(t)
}
