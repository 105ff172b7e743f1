package service

import (
	"context"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/logger"
	"roomstay-backend/internal/repository"
)

// AuditService appends entries to the audit trail. Recording is best-effort:
// failures are logged and never propagate into the caller's transaction.
type AuditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

func (s *AuditService) Record(ctx context.Context, actorID *int32, action domain.AuditAction, entityType string, entityID int32) {
	entry := &domain.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		logger.Error("audit append failed", "action", action, "entity_type", entityType, "entity_id", entityID, "error", err)
	}
}
