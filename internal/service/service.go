package service

import (
	"context"

	"boutique/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderService defines operations for order placement and management.
type OrderService interface {
	// PlaceOrder runs the checkout pipeline and returns the new order id.
	PlaceOrder(ctx context.Context, userID primitive.ObjectID, req *model.CheckoutRequest) (string, error)

	// ListAll retrieves every order with its items, newest first.
	ListAll(ctx context.Context) ([]model.OrderWithItems, error)

	// ListByUser retrieves a user's orders with their items, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.OrderWithItems, error)

	// UpdateStatus applies an admin status transition.
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
}

// CartService defines operations for cart management.
type CartService interface {
	// List retrieves the user's cart rows.
	List(ctx context.Context, userID primitive.ObjectID) ([]model.CartItem, error)

	// Apply performs one add/set/remove mutation.
	Apply(ctx context.Context, userID primitive.ObjectID, req *model.CartRequest) error

	// Clear deletes all of the user's cart rows.
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// AddressService defines operations for address management.
type AddressService interface {
	// List retrieves the user's addresses, default first.
	List(ctx context.Context, userID primitive.ObjectID) ([]model.Address, error)

	// Create stores a new address, demoting previous defaults when needed.
	Create(ctx context.Context, userID primitive.ObjectID, req *model.AddressRequest) (*model.Address, error)
}

// AuditService records and exposes the audit trail.
type AuditService interface {
	// Record appends an entry best-effort; failures are logged, never returned.
	Record(ctx context.Context, entry model.AuditLog)

	// Recent retrieves the newest audit entries.
	Recent(ctx context.Context, limit int64) ([]model.AuditLog, error)
}
