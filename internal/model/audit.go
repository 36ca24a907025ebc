package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog is one best-effort trail entry. A failed audit write never fails
// the request that produced it.
type AuditLog struct {
	ID        primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID     `json:"userId,omitempty" bson:"userId,omitempty"`
	Action    string                 `json:"action" bson:"action"`
	Endpoint  string                 `json:"endpoint" bson:"endpoint"`
	Method    string                 `json:"method" bson:"method"`
	IP        string                 `json:"ip" bson:"ip"`
	UserAgent string                 `json:"userAgent" bson:"userAgent"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}
