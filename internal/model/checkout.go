package model

// CheckoutItem is one requested order line, as submitted by the client.
// Product ids stay strings until validation resolves them.
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest is the POST /api/orders payload. Total is client-supplied
// and not recomputed server-side; the archive reconciliation report surfaces
// discrepancies after the fact.
type CheckoutRequest struct {
	Items         []CheckoutItem `json:"items"`
	Total         float64        `json:"total"`
	AddressID     string         `json:"addressId"`
	PaymentMethod string         `json:"paymentMethod,omitempty"`
}

// DefaultPaymentMethod is used when the client omits a payment method.
const DefaultPaymentMethod = "cash_on_delivery"
