package repository

import (
	"context"
	"fmt"
	"time"

	"boutique/internal/database"
	"boutique/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// auditRepository implements AuditRepository on MongoDB.
type auditRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewAuditRepository creates a new MongoDB-backed audit repository.
func NewAuditRepository(db *mongo.Database, logger zerolog.Logger) AuditRepository {
	return &auditRepository{
		collection: db.Collection(database.CollectionAuditLogs),
		logger:     logger.With().Str("repository", "audit").Logger(),
	}
}

// Insert appends an audit entry.
func (r *auditRepository) Insert(ctx context.Context, entry *model.AuditLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		r.logger.Error().Err(err).Str("action", entry.Action).Msg("failed to insert audit entry")
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

// ListRecent retrieves the most recent audit entries.
func (r *auditRepository) ListRecent(ctx context.Context, limit int64) ([]model.AuditLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query audit entries")
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}

	var entries []model.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode audit documents")
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}

	return entries, nil
}
