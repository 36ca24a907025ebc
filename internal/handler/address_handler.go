package handler

import (
	"encoding/json"
	"net/http"

	"boutique/internal/middleware"
	"boutique/internal/model"
	"boutique/internal/service"

	"github.com/rs/zerolog"
)

// AddressHandler handles address HTTP requests.
type AddressHandler struct {
	service service.AddressService
	logger  zerolog.Logger
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(service service.AddressService, logger zerolog.Logger) *AddressHandler {
	return &AddressHandler{
		service: service,
		logger:  logger.With().Str("handler", "address").Logger(),
	}
}

// Handle routes /api/addresses by method.
func (h *AddressHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *AddressHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	addresses, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve addresses", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    addresses,
	})
}

func (h *AddressHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	var req model.AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	address, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		respondDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    address,
	})
}
