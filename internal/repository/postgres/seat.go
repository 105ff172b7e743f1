package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository"
)

type seatRepository struct {
	db *sql.DB
}

func NewSeatRepository(db *sql.DB) repository.SeatRepository {
	return &seatRepository{db: db}
}

func (r *seatRepository) EnsureSeats(ctx context.Context, propertyID, bedCount int32) error {
	var existing int32
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM seats WHERE property_id = $1`, propertyID).Scan(&existing)
	if err != nil {
		return err
	}
	if existing >= bedCount {
		return nil
	}
	// Concurrent creators can both see a short count. The unique
	// (property_id, label) constraint makes the second insert of a label a
	// no-op, so the property ends with exactly one seat per bed.
	for n := int32(1); n <= bedCount; n++ {
		_, err := conn(ctx, r.db).ExecContext(ctx,
			`INSERT INTO seats (property_id, label, status, created_on, updated_on) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (property_id, label) DO NOTHING`,
			propertyID, fmt.Sprintf("Bed %d", n), domain.SeatStatusAvailable, time.Now(), time.Now())
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *seatRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Seat, error) {
	st := &domain.Seat{}
	query := `SELECT id, property_id, label, status, last_vacated_at, created_on, updated_on FROM seats WHERE id = $1 FOR UPDATE`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&st.ID, &st.PropertyID, &st.Label, &st.Status, &st.LastVacatedAt, &st.CreatedOn, &st.UpdatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return st, nil
}

func (r *seatRepository) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Seat, error) {
	query := `SELECT id, property_id, label, status, last_vacated_at, created_on, updated_on
	          FROM seats WHERE property_id = $1 ORDER BY id ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		var st domain.Seat
		if err := rows.Scan(&st.ID, &st.PropertyID, &st.Label, &st.Status, &st.LastVacatedAt, &st.CreatedOn, &st.UpdatedOn); err != nil {
			return nil, err
		}
		seats = append(seats, st)
	}
	return seats, rows.Err()
}

// ClaimAvailable selects the lowest-id AVAILABLE seat with an exclusive row
// lock and flips it to OCCUPIED in the same statement pair. SKIP LOCKED makes
// competing claimers fall through to the next free row instead of queueing on
// the same one; when the query returns no row the property is fully taken.
func (r *seatRepository) ClaimAvailable(ctx context.Context, propertyID int32) (*domain.Seat, error) {
	st := &domain.Seat{}
	query := `SELECT id, property_id, label, status, last_vacated_at, created_on, updated_on
	          FROM seats
	          WHERE property_id = $1 AND status = $2
	          ORDER BY id ASC
	          LIMIT 1
	          FOR UPDATE SKIP LOCKED`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, propertyID, domain.SeatStatusAvailable).Scan(
		&st.ID, &st.PropertyID, &st.Label, &st.Status, &st.LastVacatedAt, &st.CreatedOn, &st.UpdatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	_, err = conn(ctx, r.db).ExecContext(ctx,
		`UPDATE seats SET status = $1, updated_on = $2 WHERE id = $3`,
		domain.SeatStatusOccupied, time.Now(), st.ID)
	if err != nil {
		return nil, mapError(err)
	}
	st.Status = domain.SeatStatusOccupied
	return st, nil
}

func (r *seatRepository) Release(ctx context.Context, seatID int32) error {
	// Guarding on status keeps the release idempotent: re-releasing an
	// AVAILABLE seat matches zero rows and changes nothing.
	query := `UPDATE seats SET status = $1, last_vacated_at = $2, updated_on = $2 WHERE id = $3 AND status <> $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, domain.SeatStatusAvailable, time.Now(), seatID)
	return mapError(err)
}

func (r *seatRepository) SetStatus(ctx context.Context, seatID int32, status domain.SeatStatus) error {
	query := `UPDATE seats SET status = $1, updated_on = $2 WHERE id = $3`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, status, time.Now(), seatID)
	return mapError(err)
}

func (r *seatRepository) CountAvailable(ctx context.Context, propertyID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM seats WHERE property_id = $1 AND status = $2`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, propertyID, domain.SeatStatusAvailable).Scan(&count)
	return count, err
}
