package notification

import "context"

// SummaryItem is one order line as presented in a confirmation.
type SummaryItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderSummary is the minimal payload a confirmation needs.
type OrderSummary struct {
	OrderID     string        `json:"orderId"`
	Items       []SummaryItem `json:"items"`
	TotalAmount float64       `json:"totalAmount"`
}

// Dispatcher delivers order confirmations. Dispatch runs after the order is
// committed and is strictly best-effort: callers log failures and move on,
// since a committed order must never be undone because a notification
// failed.
type Dispatcher interface {
	SendOrderConfirmation(ctx context.Context, email string, summary OrderSummary) error
}

// nopDispatcher drops every notification. Used when the event stream is
// disabled and in tests.
type nopDispatcher struct{}

// NewNop creates a dispatcher that discards all notifications.
func NewNop() Dispatcher {
	return nopDispatcher{}
}

func (nopDispatcher) SendOrderConfirmation(context.Context, string, OrderSummary) error {
	return nil
}
