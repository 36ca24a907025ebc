package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart item quantity bounds.
const (
	MinCartQuantity = 1
	MaxCartQuantity = 999
)

// CartItem is one (user, product) cart row. Ephemeral: deleted on checkout
// or explicit clear. The (userId, productId) pair is unique.
type CartItem struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CartAction is the mutation requested against a cart row.
type CartAction string

const (
	CartActionAdd    CartAction = "add"
	CartActionSet    CartAction = "set"
	CartActionRemove CartAction = "remove"
)

// CartRequest is the payload for cart mutations.
type CartRequest struct {
	ProductID string     `json:"productId"`
	Quantity  int        `json:"quantity"`
	Action    CartAction `json:"action"`
}
