package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"boutique/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes a failure envelope with the given status and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeErrors writes a failure envelope carrying a per-line error list.
func writeErrors(w http.ResponseWriter, status int, errs []string, logger zerolog.Logger) {
	logger.Error().Strs("errors", errs).Int("status", status).Msg("handler error")
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"errors":  errs,
	})
}

// respondDomainError maps service failures to HTTP responses. Multi-line
// validation failures surface the full error list; everything else carries a
// single message.
func respondDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		if domainErr.Code == model.ErrCodeValidationFailed && len(domainErr.Details) > 0 {
			writeErrors(w, status, domainErr.Details, logger)
			return
		}
		writeError(w, status, domainErr.Message, logger)
		return
	}

	// plain request-shape failures from service validation
	msg := err.Error()
	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "must contain") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "is nil") {
		writeError(w, http.StatusBadRequest, msg, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, "internal server error", logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed,
		model.ErrCodeInvalidAddress,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeProductNotFound,
		model.ErrCodeInvalidTransition,
		model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
