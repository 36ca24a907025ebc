package integration

import (
	"context"
	"testing"
	"time"

	"boutique/internal/database"
	"boutique/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CleanupDB removes all documents from every collection.
func CleanupDB(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{
		database.CollectionProducts,
		database.CollectionAddresses,
		database.CollectionCarts,
		database.CollectionOrders,
		database.CollectionOrderItems,
		database.CollectionUsers,
		database.CollectionAuditLogs,
	} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean %s: %v", name, err)
		}
	}
}

// SeedProduct inserts a product and returns its id.
func SeedProduct(t *testing.T, db *mongo.Database, name string, price float64, stock int, active bool) primitive.ObjectID {
	t.Helper()
	product := model.Product{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		IsActive:  active,
		Images:    []string{name + ".jpg"},
		SKU:       "SKU-" + name,
		Category:  "test",
		CreatedAt: time.Now(),
	}
	if _, err := db.Collection(database.CollectionProducts).InsertOne(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product.ID
}

// SeedUser inserts a user and returns its id.
func SeedUser(t *testing.T, db *mongo.Database, email string) primitive.ObjectID {
	t.Helper()
	user := model.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		FirstName: "Test",
		LastName:  "Shopper",
		Role:      model.RoleUser,
		CreatedAt: time.Now(),
	}
	if _, err := db.Collection(database.CollectionUsers).InsertOne(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user.ID
}

// SeedAddress inserts an address owned by userID and returns its id.
func SeedAddress(t *testing.T, db *mongo.Database, userID primitive.ObjectID) primitive.ObjectID {
	t.Helper()
	address := model.Address{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		FullName:     "Test Shopper",
		Phone:        "123456789",
		Country:      "PT",
		City:         "Lisbon",
		AddressLine1: "Rua A 1",
		Type:         model.AddressTypeShipping,
		CreatedAt:    time.Now(),
	}
	if _, err := db.Collection(database.CollectionAddresses).InsertOne(context.Background(), address); err != nil {
		t.Fatalf("failed to seed address: %v", err)
	}
	return address.ID
}

// SeedCartItem inserts a cart row for (userID, productID).
func SeedCartItem(t *testing.T, db *mongo.Database, userID, productID primitive.ObjectID, quantity int) {
	t.Helper()
	item := model.CartItem{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}
	if _, err := db.Collection(database.CollectionCarts).InsertOne(context.Background(), item); err != nil {
		t.Fatalf("failed to seed cart item: %v", err)
	}
}

// CountDocs returns the number of documents in a collection.
func CountDocs(t *testing.T, db *mongo.Database, collection string) int64 {
	t.Helper()
	n, err := db.Collection(collection).CountDocuments(context.Background(), bson.M{})
	if err != nil {
		t.Fatalf("failed to count %s: %v", collection, err)
	}
	return n
}
