package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seedCatalog inserts a small sample catalogue for local development.
// Usage: go run scripts/seed_catalog.go [mongodb-uri]
func main() {
	uri := "mongodb://localhost:27017"
	if len(os.Args) > 1 {
		uri = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to ping database: %v\n", err)
		os.Exit(1)
	}

	products := client.Database("boutique").Collection("products")

	samples := []interface{}{
		sampleProduct("Linen Shirt", "Lightweight linen shirt", 49.90, "apparel", "LS-001", 25),
		sampleProduct("Wool Scarf", "Hand-woven wool scarf", 24.50, "accessories", "WS-002", 40),
		sampleProduct("Canvas Tote", "Heavy-duty canvas tote bag", 15.00, "accessories", "CT-003", 60),
		sampleProduct("Silk Tie", "Printed silk tie", 30.00, "apparel", "ST-004", 15),
		sampleProduct("Ceramic Mug", "Stoneware mug, 350ml", 12.00, "home", "CM-005", 80),
	}

	result, err := products.InsertMany(ctx, samples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to seed products: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d products\n", len(result.InsertedIDs))
}

func sampleProduct(name, description string, price float64, category, sku string, stock int) map[string]interface{} {
	return map[string]interface{}{
		"_id":         primitive.NewObjectID(),
		"name":        name,
		"description": description,
		"price":       price,
		"category":    category,
		"images":      []string{fmt.Sprintf("https://cdn.example.com/%s.jpg", sku)},
		"sku":         sku,
		"stock":       stock,
		"isActive":    true,
		"createdAt":   time.Now(),
	}
}
