package integration

import (
	"context"
	"testing"
	"time"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewCartRepository(testDB.DB, zerolog.Nop())
	ctx := context.Background()

	t.Run("add upserts and increments", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		userID := primitive.NewObjectID()
		productID := primitive.NewObjectID()

		require.NoError(t, repo.Add(ctx, userID, productID, 1))
		require.NoError(t, repo.Add(ctx, userID, productID, 2))

		items, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
	})

	t.Run("set replaces quantity", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		userID := primitive.NewObjectID()
		productID := primitive.NewObjectID()

		require.NoError(t, repo.Add(ctx, userID, productID, 5))
		require.NoError(t, repo.Set(ctx, userID, productID, 2))

		items, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("remove deletes a single row", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		userID := primitive.NewObjectID()
		keep := primitive.NewObjectID()
		drop := primitive.NewObjectID()

		require.NoError(t, repo.Add(ctx, userID, keep, 1))
		require.NoError(t, repo.Add(ctx, userID, drop, 1))
		require.NoError(t, repo.Remove(ctx, userID, drop))

		items, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, keep, items[0].ProductID)
	})

	t.Run("delete all clears only that user", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		alice := primitive.NewObjectID()
		bob := primitive.NewObjectID()
		productID := primitive.NewObjectID()

		require.NoError(t, repo.Add(ctx, alice, productID, 1))
		require.NoError(t, repo.Add(ctx, bob, productID, 1))
		require.NoError(t, repo.DeleteAllByUser(ctx, alice))

		aliceItems, err := repo.ListByUser(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, aliceItems)

		bobItems, err := repo.ListByUser(ctx, bob)
		require.NoError(t, err)
		assert.Len(t, bobItems, 1)
	})
}

func TestAddressRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewAddressRepository(testDB.DB, zerolog.Nop())
	ctx := context.Background()

	t.Run("ownership is enforced on lookup", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		owner := primitive.NewObjectID()
		stranger := primitive.NewObjectID()
		addressID := SeedAddress(t, testDB.DB, owner)

		found, err := repo.FindOwnedByID(ctx, addressID, owner)
		require.NoError(t, err)
		require.NotNil(t, found)

		missed, err := repo.FindOwnedByID(ctx, addressID, stranger)
		require.NoError(t, err)
		assert.Nil(t, missed)
	})

	t.Run("clear defaults demotes the previous default", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		userID := primitive.NewObjectID()

		first := &model.Address{
			UserID: userID, FullName: "A", Phone: "1", Country: "PT",
			City: "Lisbon", AddressLine1: "Rua A", Type: model.AddressTypeShipping, IsDefault: true,
		}
		require.NoError(t, repo.Create(ctx, first))

		require.NoError(t, repo.ClearDefaults(ctx, userID, model.AddressTypeShipping))

		second := &model.Address{
			UserID: userID, FullName: "B", Phone: "2", Country: "PT",
			City: "Porto", AddressLine1: "Rua B", Type: model.AddressTypeShipping, IsDefault: true,
		}
		require.NoError(t, repo.Create(ctx, second))

		addresses, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, addresses, 2)

		defaults := 0
		for _, a := range addresses {
			if a.IsDefault {
				defaults++
				assert.Equal(t, "B", a.FullName)
			}
		}
		assert.Equal(t, 1, defaults)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewOrderRepository(testDB.DB, zerolog.Nop())
	ctx := context.Background()

	t.Run("update status of a missing order", func(t *testing.T) {
		CleanupDB(t, testDB.DB)

		err := repo.UpdateStatus(ctx, primitive.NewObjectID(), model.OrderStatusConfirmed)
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})

	t.Run("list by user is newest first", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		userID := primitive.NewObjectID()
		addressID := primitive.NewObjectID()

		base := time.Now().Add(-time.Hour)
		for i := 0; i < 3; i++ {
			order := &model.Order{
				UserID:            userID,
				TotalAmount:       float64(10 * (i + 1)),
				Status:            model.OrderStatusPending,
				PaymentStatus:     model.PaymentStatusPending,
				PaymentMethod:     model.DefaultPaymentMethod,
				ShippingAddressID: addressID,
				BillingAddressID:  addressID,
				CreatedAt:         base.Add(time.Duration(i) * time.Minute),
				UpdatedAt:         base.Add(time.Duration(i) * time.Minute),
			}
			require.NoError(t, repo.Insert(ctx, order))
		}

		orders, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, orders, 3)
		// newest first
		assert.Equal(t, 30.0, orders[0].TotalAmount)
		assert.Equal(t, 10.0, orders[2].TotalAmount)
	})
}
