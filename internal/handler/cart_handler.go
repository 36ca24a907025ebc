package handler

import (
	"encoding/json"
	"net/http"

	"boutique/internal/middleware"
	"boutique/internal/model"
	"boutique/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Handle routes /api/cart by method: list, mutate, clear.
func (h *CartHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.apply(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *CartHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    items,
	})
}

func (h *CartHandler) apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	var req model.CartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.Apply(r.Context(), userID, &req); err != nil {
		respondDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cart updated",
	})
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cart cleared",
	})
}
