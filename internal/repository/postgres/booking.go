package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository"

	"github.com/lib/pq"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, property_id, tenant_id, landlord_id, seat_id, start_date, end_date, status,
	total_price_cents, commission_cents, net_amount_cents, notes, check_in_time, check_out_time, created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.PropertyID, &b.TenantID, &b.LandlordID, &b.SeatID, &b.StartDate, &b.EndDate,
		&b.Status, &b.TotalPriceCents, &b.CommissionCents, &b.NetAmountCents, &b.Notes,
		&b.CheckInTime, &b.CheckOutTime, &b.CreatedOn, &b.UpdatedOn)
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (property_id, tenant_id, landlord_id, start_date, end_date, status,
	          total_price_cents, commission_cents, net_amount_cents, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id, created_on, updated_on`
	now := time.Now()
	return mapError(conn(ctx, r.db).QueryRowContext(ctx, query,
		b.PropertyID, b.TenantID, b.LandlordID, b.StartDate, b.EndDate, b.Status,
		b.TotalPriceCents, b.CommissionCents, b.NetAmountCents, b.Notes, now, now,
	).Scan(&b.ID, &b.CreatedOn, &b.UpdatedOn))
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, query, id), b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	if err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, query, id), b); err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, seat_id=$2, check_in_time=$3, check_out_time=$4, notes=$5, updated_on=$6 WHERE id=$7`
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		b.Status, b.SeatID, b.CheckInTime, b.CheckOutTime, b.Notes, time.Now(), b.ID)
	return mapError(err)
}

func (r *bookingRepository) Delete(ctx context.Context, id int32) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return mapError(err)
}

func (r *bookingRepository) ExistsOverlapping(ctx context.Context, propertyID int32, statuses []domain.BookingStatus, start, end time.Time) (bool, error) {
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM bookings
	            WHERE property_id = $1 AND status = ANY($2)
	              AND start_date < $4 AND end_date > $3)`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, propertyID, pq.Array(ss), start, end).Scan(&exists)
	return exists, err
}

func (r *bookingRepository) ListByTenant(ctx context.Context, tenantID int32, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "tenant_id", tenantID, page, pageSize)
}

func (r *bookingRepository) ListByLandlord(ctx context.Context, landlordID int32, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "landlord_id", landlordID, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, column string, userID int32, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := fmt.Sprintf(`SELECT count(*) FROM bookings WHERE %s = $1`, column)
	if err := conn(ctx, r.db).QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`,
		bookingColumns, column)
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, count, rows.Err()
}
