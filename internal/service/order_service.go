package service

import (
	"context"
	"fmt"
	"time"

	"boutique/internal/checkout"
	"boutique/internal/model"
	"boutique/internal/notification"
	"boutique/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// orderService implements OrderService. PlaceOrder is the order assembler:
// it drives the validator, the address resolver and the transaction
// coordinator through the three checkout writes.
type orderService struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	carts       repository.CartRepository
	users       repository.UserRepository
	validator   checkout.InventoryValidator
	resolver    checkout.AddressResolver
	coordinator checkout.Coordinator
	dispatcher  notification.Dispatcher
	audit       AuditService
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	carts repository.CartRepository,
	users repository.UserRepository,
	validator checkout.InventoryValidator,
	resolver checkout.AddressResolver,
	coordinator checkout.Coordinator,
	dispatcher notification.Dispatcher,
	audit AuditService,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orders:      orders,
		products:    products,
		carts:       carts,
		users:       users,
		validator:   validator,
		resolver:    resolver,
		coordinator: coordinator,
		dispatcher:  dispatcher,
		audit:       audit,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates the requested lines, confirms address ownership, and
// performs the order-header insert, the order-item batch insert and the cart
// clear under the coordinator's execution context. Validation and address
// failures return before any write. Notification runs after commit and never
// affects the committed order.
func (s *orderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, req *model.CheckoutRequest) (orderID string, err error) {
	if err := s.validateCheckoutRequest(req); err != nil {
		return "", err
	}

	validation, err := s.validator.Validate(ctx, req.Items)
	if err != nil {
		return "", fmt.Errorf("failed to validate cart: %w", err)
	}
	if !validation.Valid {
		s.logger.Warn().
			Str("user_id", userID.Hex()).
			Strs("errors", validation.Errors).
			Msg("cart validation failed")
		return "", model.NewValidationError(validation.Errors)
	}

	address, err := s.resolver.Resolve(ctx, req.AddressID, userID)
	if err != nil {
		return "", err
	}

	exec, err := s.coordinator.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to open checkout execution: %w", err)
	}

	// Abandon the transaction, if one is open, on any failure below.
	defer func() {
		if err != nil {
			exec.Abort(ctx)
		}
	}()

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.DefaultPaymentMethod
	}

	now := time.Now()
	order := &model.Order{
		ID:                primitive.NewObjectID(),
		UserID:            userID,
		TotalAmount:       req.Total,
		Status:            model.OrderStatusPending,
		PaymentStatus:     model.PaymentStatusPending,
		PaymentMethod:     paymentMethod,
		ShippingAddressID: address.ID,
		BillingAddressID:  address.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err = exec.Write(ctx, "create-order", func(ctx context.Context) error {
		return s.orders.Insert(ctx, order)
	}); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("failed to create order")
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	items := s.buildOrderItems(order.ID, req.Items, validation.Snapshots, now)

	if err = exec.Write(ctx, "create-order-items", func(ctx context.Context) error {
		return s.orders.InsertItems(ctx, items)
	}); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.Hex()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return "", fmt.Errorf("failed to create order items: %w", err)
	}

	if err = exec.Write(ctx, "clear-cart", func(ctx context.Context) error {
		return s.carts.DeleteAllByUser(ctx, userID)
	}); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to clear cart")
		return "", fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = exec.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("failed to commit checkout")
		return "", err
	}

	s.logger.Info().
		Str("order_id", order.ID.Hex()).
		Str("user_id", userID.Hex()).
		Int("item_count", len(items)).
		Stringer("mode", exec.Mode()).
		Msg("order placed")

	// Outside the atomic scope. The order is committed; notification and
	// audit failures are logged and swallowed.
	s.notify(ctx, userID, order, items)
	s.audit.Record(ctx, model.AuditLog{
		UserID: userID,
		Action: "order.placed",
		Metadata: map[string]interface{}{
			"orderId":     order.ID.Hex(),
			"totalAmount": order.TotalAmount,
			"itemCount":   len(items),
			"mode":        exec.Mode().String(),
		},
	})

	return order.ID.Hex(), nil
}

// buildOrderItems turns validated request lines into immutable order lines,
// priced from the validation snapshots.
func (s *orderService) buildOrderItems(orderID primitive.ObjectID, items []model.CheckoutItem, snapshots map[string]checkout.Snapshot, now time.Time) []model.OrderItem {
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		// ids were validated upstream; a miss here cannot happen for a
		// valid result
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			continue
		}
		snap := snapshots[item.ProductID]

		image := ""
		if len(snap.Images) > 0 {
			image = snap.Images[0]
		}

		orderItems = append(orderItems, model.OrderItem{
			ID:              primitive.NewObjectID(),
			OrderID:         orderID,
			ProductID:       productID,
			Quantity:        item.Quantity,
			PriceAtPurchase: snap.Price,
			ProductSnapshot: model.ProductSnapshot{
				Name:     snap.Name,
				Image:    image,
				SKU:      snap.SKU,
				Category: snap.Category,
			},
			CreatedAt: now,
		})
	}
	return orderItems
}

// notify builds the confirmation summary and dispatches it best-effort.
// Product names come from a fresh read; lines whose product has vanished
// since checkout fall back to the stored snapshot.
func (s *orderService) notify(ctx context.Context, userID primitive.ObjectID, order *model.Order, items []model.OrderItem) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID.Hex()).
			Msg("skipping order confirmation, user lookup failed")
		return
	}

	ids := make([]primitive.ObjectID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	names := make(map[primitive.ObjectID]string)
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("product lookup for confirmation failed, using snapshots")
	} else {
		for _, p := range products {
			names[p.ID] = p.Name
		}
	}

	summary := notification.OrderSummary{
		OrderID:     order.ID.Hex(),
		TotalAmount: order.TotalAmount,
	}
	for _, item := range items {
		name, ok := names[item.ProductID]
		if !ok {
			name = item.ProductSnapshot.Name
		}
		summary.Items = append(summary.Items, notification.SummaryItem{
			ProductID: item.ProductID.Hex(),
			Name:      name,
			Price:     item.PriceAtPurchase,
			Quantity:  item.Quantity,
		})
	}

	if err := s.dispatcher.SendOrderConfirmation(ctx, user.Email, summary); err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.Hex()).
			Msg("order confirmation dispatch failed")
	}
}

// ListAll retrieves every order with its items, newest first.
func (s *orderService) ListAll(ctx context.Context) ([]model.OrderWithItems, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return s.attachItems(ctx, orders)
}

// ListByUser retrieves a user's orders with their items, newest first.
func (s *orderService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.OrderWithItems, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return s.attachItems(ctx, orders)
}

func (s *orderService) attachItems(ctx context.Context, orders []model.Order) ([]model.OrderWithItems, error) {
	out := make([]model.OrderWithItems, 0, len(orders))
	for _, order := range orders {
		items, err := s.orders.ItemsByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load items for order %s: %w", order.ID.Hex(), err)
		}
		out = append(out, model.OrderWithItems{Order: order, Items: items})
	}
	return out, nil
}

// UpdateStatus applies an admin status transition, enforcing the order
// state machine.
func (s *orderService) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return model.ErrOrderNotFound
	}

	if !status.Valid() {
		return model.ErrInvalidTransition
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", orderID).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("status transition rejected")
		return model.ErrInvalidTransition
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info().
		Str("order_id", orderID).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Msg("order status updated")

	return nil
}

// validateCheckoutRequest validates the checkout payload shape.
func (s *orderService) validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return fmt.Errorf("checkout request is nil")
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return fmt.Errorf("item %d: product ID is required", i)
		}
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	if req.AddressID == "" {
		return fmt.Errorf("address ID is required")
	}

	return nil
}
