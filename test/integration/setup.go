package integration

import (
	"context"
	"testing"
	"time"

	"boutique/internal/database"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestDB represents a MongoDB test instance.
type TestDB struct {
	Container *mongodb.MongoDBContainer
	Client    *mongo.Client
	DB        *mongo.Database
	URI       string
}

// SetupTestDB starts a MongoDB test container. The container runs as a
// single-node replica set so multi-document transactions are available.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7",
		mongodb.WithReplicaSet("rs0"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to mongodb: %v", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		t.Fatalf("failed to ping mongodb: %v", err)
	}

	db := client.Database("boutique_test")

	if err := database.EnsureIndexes(ctx, db, zerolog.Nop()); err != nil {
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: container,
		Client:    client,
		DB:        db,
		URI:       uri,
	}
}
