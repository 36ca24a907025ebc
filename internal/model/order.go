package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// orderTransitions defines the allowed status transitions.
// Delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the status may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is the order header. Created exactly once per successful checkout,
// mutated only by status transitions afterwards, never deleted.
type Order struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID            primitive.ObjectID `json:"userId" bson:"userId"`
	TotalAmount       float64            `json:"totalAmount" bson:"totalAmount"`
	Status            OrderStatus        `json:"status" bson:"status"`
	PaymentStatus     PaymentStatus      `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod     string             `json:"paymentMethod" bson:"paymentMethod"`
	ShippingAddressID primitive.ObjectID `json:"shippingAddressId" bson:"shippingAddressId"`
	BillingAddressID  primitive.ObjectID `json:"billingAddressId" bson:"billingAddressId"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductSnapshot is the immutable copy of product fields captured at
// validation time. It decouples historical order lines from later catalogue
// edits or deletions.
type ProductSnapshot struct {
	Name     string `json:"name" bson:"name"`
	Image    string `json:"image" bson:"image"`
	SKU      string `json:"sku" bson:"sku"`
	Category string `json:"category" bson:"category"`
}

// OrderItem is a historical order line. Immutable after creation.
type OrderItem struct {
	ID              primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	OrderID         primitive.ObjectID `json:"orderId" bson:"orderId"`
	ProductID       primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity        int                `json:"quantity" bson:"quantity"`
	PriceAtPurchase float64            `json:"priceAtPurchase" bson:"priceAtPurchase"`
	ProductSnapshot ProductSnapshot    `json:"productSnapshot" bson:"productSnapshot"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// OrderWithItems bundles an order header with its lines for read endpoints.
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"orderItems"`
}
