package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), string(s))
	}

	assert.False(t, OrderStatus("processing").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestDomainError_Error(t *testing.T) {
	plain := NewDomainError(ErrCodeInvalidAddress, "Invalid address")
	assert.Equal(t, "Invalid address", plain.Error())

	withDetails := NewValidationError([]string{"Product not found: abc", "Insufficient stock for Hat: Available 1, requested 3"})
	assert.Equal(t, ErrCodeValidationFailed, withDetails.Code)
	assert.Contains(t, withDetails.Error(), "Product not found: abc")
	assert.Contains(t, withDetails.Error(), "Insufficient stock for Hat")
}
