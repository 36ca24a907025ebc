package repository

import (
	"context"

	"boutique/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Write operations below receive their transactional binding through the
// context: the checkout coordinator passes a mongo session context when the
// deployment supports multi-document transactions, and a plain context when
// it does not. Repositories never start or end transactions themselves.

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// FindByID retrieves a single product. Returns (nil, nil) when absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)

	// FindByIDs retrieves multiple products by their ids.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error)
}

// AddressRepository defines the interface for address data access operations.
type AddressRepository interface {
	// FindOwnedByID retrieves an address only when it belongs to the given
	// user. Returns (nil, nil) when absent or owned by someone else.
	FindOwnedByID(ctx context.Context, id, userID primitive.ObjectID) (*model.Address, error)

	// ListByUser retrieves a user's addresses, default first, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Address, error)

	// Create inserts a new address and fills in its id.
	Create(ctx context.Context, address *model.Address) error

	// ClearDefaults unsets the default flag on the user's addresses of the
	// given type.
	ClearDefaults(ctx context.Context, userID primitive.ObjectID, addrType model.AddressType) error
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// ListByUser retrieves the user's cart rows.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.CartItem, error)

	// Add increments the quantity of a cart row, creating it if needed.
	Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error

	// Set replaces the quantity of a cart row, creating it if needed.
	Set(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error

	// Remove deletes a single cart row.
	Remove(ctx context.Context, userID, productID primitive.ObjectID) error

	// DeleteAllByUser deletes every cart row belonging to the user.
	DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Insert creates the order header and fills in its id.
	Insert(ctx context.Context, order *model.Order) error

	// InsertItems creates all order lines in one batch.
	InsertItems(ctx context.Context, items []model.OrderItem) error

	// FindByID retrieves an order header. Returns (nil, nil) when absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)

	// ItemsByOrder retrieves the lines of an order.
	ItemsByOrder(ctx context.Context, orderID primitive.ObjectID) ([]model.OrderItem, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)

	// UpdateStatus sets the fulfilment status of an order.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus) error
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// FindByID retrieves a user. Returns (nil, nil) when absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// AuditRepository defines the interface for audit trail operations.
type AuditRepository interface {
	// Insert appends an audit entry.
	Insert(ctx context.Context, entry *model.AuditLog) error

	// ListRecent retrieves the most recent audit entries.
	ListRecent(ctx context.Context, limit int64) ([]model.AuditLog, error)
}
