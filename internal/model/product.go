package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalogue entry. Checkout never mutates products;
// stock is read-only at validation time and adjusted by back-office operations.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Images      []string           `json:"images" bson:"images"`
	SKU         string             `json:"sku" bson:"sku"`
	Stock       int                `json:"stock" bson:"stock"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// FirstImage returns the primary product image, or an empty string.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
