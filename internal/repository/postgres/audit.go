package postgres

import (
	"context"
	"database/sql"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (actor_id, action, entity_type, entity_id, created_on)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_on`
	return conn(ctx, r.db).QueryRowContext(ctx, query,
		entry.ActorID, entry.Action, entry.EntityType, entry.EntityID).Scan(&entry.ID, &entry.CreatedOn)
}
