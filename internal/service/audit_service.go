package service

import (
	"context"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/rs/zerolog"
)

// auditService implements AuditService. Recording is strictly best-effort:
// a failed trail write must never fail the request that produced it.
type auditService struct {
	audits repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(audits repository.AuditRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		audits: audits,
		logger: logger.With().Str("service", "audit").Logger(),
	}
}

// Record appends an entry; failures are logged and swallowed.
func (s *auditService) Record(ctx context.Context, entry model.AuditLog) {
	if err := s.audits.Insert(ctx, &entry); err != nil {
		s.logger.Warn().
			Err(err).
			Str("action", entry.Action).
			Msg("audit record failed")
	}
}

// Recent retrieves the newest audit entries.
func (s *auditService) Recent(ctx context.Context, limit int64) ([]model.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.audits.ListRecent(ctx, limit)
}
