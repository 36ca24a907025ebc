package archive

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"boutique/internal/database"
	"boutique/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Discrepancy records an order whose stored total does not match the sum
// of its line items at their captured prices.
type Discrepancy struct {
	OrderID       string  `json:"orderId"`
	StoredTotal   float64 `json:"storedTotal"`
	ComputedTotal float64 `json:"computedTotal"`
}

// Report summarises an export run.
type Report struct {
	Orders        int           `json:"orders"`
	Items         int           `json:"items"`
	Discrepancies []Discrepancy `json:"discrepancies"`
	GeneratedAt   time.Time     `json:"generatedAt"`
}

// record is a single line in the export stream.
type record struct {
	Collection string      `json:"collection"`
	Document   interface{} `json:"document"`
}

// Exporter streams orders and order items as gzipped JSON lines and
// reconciles stored order totals against recomputed line-item sums.
// Totals are accepted from the client at checkout, so the reconciliation
// report is how drift gets noticed.
type Exporter struct {
	db     *mongo.Database
	logger zerolog.Logger
}

// NewExporter creates a new archive exporter.
func NewExporter(db *mongo.Database, logger zerolog.Logger) *Exporter {
	return &Exporter{
		db:     db,
		logger: logger.With().Str("component", "archive-exporter").Logger(),
	}
}

// Export writes a gzipped JSON-lines snapshot of orders and order items
// to w and returns the reconciliation report.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (*Report, error) {
	gz := gzip.NewWriter(w)
	buf := bufio.NewWriterSize(gz, 64*1024)
	enc := json.NewEncoder(buf)

	report := &Report{GeneratedAt: time.Now().UTC()}
	stored := make(map[string]float64)
	computed := make(map[string]float64)

	ordersCur, err := e.db.Collection(database.CollectionOrders).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer ordersCur.Close(ctx)

	for ordersCur.Next(ctx) {
		var order model.Order
		if err := ordersCur.Decode(&order); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		if err := enc.Encode(record{Collection: database.CollectionOrders, Document: order}); err != nil {
			return nil, fmt.Errorf("failed to write order record: %w", err)
		}
		stored[order.ID.Hex()] = order.TotalAmount
		report.Orders++
	}
	if err := ordersCur.Err(); err != nil {
		return nil, fmt.Errorf("error reading orders: %w", err)
	}

	itemsCur, err := e.db.Collection(database.CollectionOrderItems).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer itemsCur.Close(ctx)

	for itemsCur.Next(ctx) {
		var item model.OrderItem
		if err := itemsCur.Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to decode order item: %w", err)
		}
		if err := enc.Encode(record{Collection: database.CollectionOrderItems, Document: item}); err != nil {
			return nil, fmt.Errorf("failed to write order item record: %w", err)
		}
		computed[item.OrderID.Hex()] += item.PriceAtPurchase * float64(item.Quantity)
		report.Items++

		// Check context cancellation periodically
		if report.Items%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
	}
	if err := itemsCur.Err(); err != nil {
		return nil, fmt.Errorf("error reading order items: %w", err)
	}

	if err := buf.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush export stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip stream: %w", err)
	}

	report.Discrepancies = reconcile(stored, computed)

	e.logger.Info().
		Int("orders", report.Orders).
		Int("items", report.Items).
		Int("discrepancies", len(report.Discrepancies)).
		Msg("export completed")

	return report, nil
}

// reconcile compares stored totals against recomputed line-item sums.
// Amounts within half a cent are treated as equal.
func reconcile(stored, computed map[string]float64) []Discrepancy {
	var out []Discrepancy
	for orderID, total := range stored {
		sum := computed[orderID]
		if math.Abs(total-sum) > 0.005 {
			out = append(out, Discrepancy{
				OrderID:       orderID,
				StoredTotal:   total,
				ComputedTotal: sum,
			})
		}
	}
	return out
}
