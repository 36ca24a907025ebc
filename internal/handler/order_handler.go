package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"boutique/internal/middleware"
	"boutique/internal/model"
	"boutique/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders, the checkout entry point.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	orderID, err := h.service.PlaceOrder(r.Context(), userID, &req)
	if err != nil {
		respondDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"orderId": orderID,
	})
}

// ListAll handles GET /api/orders. Admin only.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    orders,
	})
}

// ListMine handles GET /api/orders/my, the caller's order history.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	orders, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    orders,
	})
}

// UpdateStatus handles PATCH /api/orders/{id}/status. Admin only.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	// path: /api/orders/{id}/status
	path := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	orderID := strings.TrimSuffix(path, "/status")
	if orderID == "" || orderID == path {
		writeError(w, http.StatusNotFound, "not found", h.logger)
		return
	}

	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		respondDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
