package postgres

import (
	"context"
	"database/sql"
	"time"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository"
)

type propertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	p := &domain.Property{}
	query := `SELECT id, owner_id, title, bed_count, price_per_night_cents, status, created_on
	          FROM properties WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.BedCount, &p.PricePerNightCents, &p.Status, &p.CreatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Property, error) {
	p := &domain.Property{}
	query := `SELECT id, owner_id, title, bed_count, price_per_night_cents, status, created_on
	          FROM properties WHERE id = $1 FOR UPDATE`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.BedCount, &p.PricePerNightCents, &p.Status, &p.CreatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *propertyRepository) UpdateStatus(ctx context.Context, id int32, status domain.PropertyStatus) error {
	query := `UPDATE properties SET status = $1, updated_on = $2 WHERE id = $3`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, status, time.Now(), id)
	return mapError(err)
}
