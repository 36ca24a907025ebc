package model

import "strings"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeInvalidAddress    = "INVALID_ADDRESS"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside the message so handlers can
// map business failures to HTTP statuses without string matching.
type DomainError struct {
	Code    string
	Message string
	// Details holds the per-line failure list for validation errors.
	Details []string
}

func (e *DomainError) Error() string {
	if len(e.Details) > 0 {
		return e.Message + ": " + strings.Join(e.Details, "; ")
	}
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a ValidationFailed error carrying the complete
// per-line error list, in input order.
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "cart validation failed",
		Details: details,
	}
}

// Common domain errors
var (
	ErrUnauthenticated   = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrInvalidAddress    = NewDomainError(ErrCodeInvalidAddress, "Invalid address")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "Order status transition not allowed")
)
