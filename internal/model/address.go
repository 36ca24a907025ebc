package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressType distinguishes shipping and billing addresses.
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
)

// Address is a user-owned postal address. At most one default exists per
// (user, type). Once referenced by an order it is treated as immutable.
type Address struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	FullName     string             `json:"fullName" bson:"fullName"`
	Phone        string             `json:"phone" bson:"phone"`
	Country      string             `json:"country" bson:"country"`
	City         string             `json:"city" bson:"city"`
	AddressLine1 string             `json:"addressLine1" bson:"addressLine1"`
	AddressLine2 string             `json:"addressLine2,omitempty" bson:"addressLine2,omitempty"`
	PostalCode   string             `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	IsDefault    bool               `json:"isDefault" bson:"isDefault"`
	Type         AddressType        `json:"type" bson:"type"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// AddressRequest is the payload for creating an address.
type AddressRequest struct {
	FullName     string      `json:"fullName"`
	Phone        string      `json:"phone"`
	Country      string      `json:"country"`
	City         string      `json:"city"`
	AddressLine1 string      `json:"addressLine1"`
	AddressLine2 string      `json:"addressLine2"`
	PostalCode   string      `json:"postalCode"`
	IsDefault    bool        `json:"isDefault"`
	Type         AddressType `json:"type"`
}
