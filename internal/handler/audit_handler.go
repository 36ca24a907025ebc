package handler

import (
	"net/http"
	"strconv"

	"boutique/internal/middleware"
	"boutique/internal/service"

	"github.com/rs/zerolog"
)

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("handler", "audit").Logger(),
	}
}

// Recent handles GET /api/audit. Admin only.
func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if !middleware.IsAdmin(r.Context()) {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a number", h.logger)
			return
		}
		limit = parsed
	}

	entries, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve audit log", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    entries,
	})
}
