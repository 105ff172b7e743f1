package postgres

import (
	"context"
	"database/sql"
	"time"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository"

	"github.com/lib/pq"
)

type earningRepository struct {
	db *sql.DB
}

func NewEarningRepository(db *sql.DB) repository.EarningRepository {
	return &earningRepository{db: db}
}

const earningColumns = `id, user_id, booking_id, amount_cents, commission_cents, net_amount_cents, status, payout_request_id, created_on, updated_on`

func scanEarning(row interface{ Scan(...any) error }, e *domain.Earning) error {
	return row.Scan(&e.ID, &e.UserID, &e.BookingID, &e.AmountCents, &e.CommissionCents,
		&e.NetAmountCents, &e.Status, &e.PayoutRequestID, &e.CreatedOn, &e.UpdatedOn)
}

// CreateIfAbsent relies on the unique index on booking_id: a second recording
// of the same booking's earning hits ON CONFLICT and inserts nothing.
func (r *earningRepository) CreateIfAbsent(ctx context.Context, e *domain.Earning) (bool, error) {
	query := `INSERT INTO earnings (user_id, booking_id, amount_cents, commission_cents, net_amount_cents, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (booking_id) DO NOTHING
	          RETURNING id`
	now := time.Now()
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		e.UserID, e.BookingID, e.AmountCents, e.CommissionCents, e.NetAmountCents, e.Status, now, now,
	).Scan(&e.ID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapError(err)
	}
	return true, nil
}

func (r *earningRepository) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Earning, error) {
	e := &domain.Earning{}
	query := `SELECT ` + earningColumns + ` FROM earnings WHERE booking_id = $1`
	if err := scanEarning(conn(ctx, r.db).QueryRowContext(ctx, query, bookingID), e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *earningRepository) UpdateStatusByBooking(ctx context.Context, bookingID int32, from, to domain.EarningStatus) error {
	query := `UPDATE earnings SET status = $1, updated_on = $2 WHERE booking_id = $3 AND status = $4`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, to, time.Now(), bookingID, from)
	return mapError(err)
}

// LockAvailableByUser takes exclusive locks on every AVAILABLE earning of the
// owner so a concurrent payout request blocks until this transaction commits,
// then re-reads the rows as no longer AVAILABLE and comes up empty.
func (r *earningRepository) LockAvailableByUser(ctx context.Context, userID int32) ([]domain.Earning, error) {
	query := `SELECT ` + earningColumns + `
	          FROM earnings
	          WHERE user_id = $1 AND status = $2
	          ORDER BY id ASC
	          FOR UPDATE`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID, domain.EarningStatusAvailable)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var earnings []domain.Earning
	for rows.Next() {
		var e domain.Earning
		if err := scanEarning(rows, &e); err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}

func (r *earningRepository) AssignToPayoutRequest(ctx context.Context, earningIDs []int32, payoutRequestID int32) error {
	query := `UPDATE earnings SET status = $1, payout_request_id = $2, updated_on = $3 WHERE id = ANY($4)`
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		domain.EarningStatusRequested, payoutRequestID, time.Now(), pq.Array(earningIDs))
	return mapError(err)
}

func (r *earningRepository) ResolvePayoutRequest(ctx context.Context, payoutRequestID int32, to domain.EarningStatus, unlink bool) error {
	var err error
	if unlink {
		query := `UPDATE earnings SET status = $1, payout_request_id = NULL, updated_on = $2
		          WHERE payout_request_id = $3 AND status = $4`
		_, err = conn(ctx, r.db).ExecContext(ctx, query, to, time.Now(), payoutRequestID, domain.EarningStatusRequested)
	} else {
		query := `UPDATE earnings SET status = $1, updated_on = $2
		          WHERE payout_request_id = $3 AND status = $4`
		_, err = conn(ctx, r.db).ExecContext(ctx, query, to, time.Now(), payoutRequestID, domain.EarningStatusRequested)
	}
	return mapError(err)
}

func (r *earningRepository) Summary(ctx context.Context, userID int32) (*domain.EarningsSummary, error) {
	summary := &domain.EarningsSummary{}
	query := `SELECT
	            COALESCE(SUM(net_amount_cents), 0),
	            COALESCE(SUM(net_amount_cents) FILTER (WHERE status = 'PENDING'), 0),
	            COALESCE(SUM(net_amount_cents) FILTER (WHERE status = 'AVAILABLE'), 0),
	            COALESCE(SUM(net_amount_cents) FILTER (WHERE status = 'REQUESTED'), 0),
	            COALESCE(SUM(net_amount_cents) FILTER (WHERE status = 'PAID'), 0)
	          FROM earnings WHERE user_id = $1 AND status <> 'CANCELLED'`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(
		&summary.TotalCents, &summary.PendingCents, &summary.AvailableCents,
		&summary.RequestedCents, &summary.PaidCents)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *earningRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Earning, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM earnings WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + earningColumns + ` FROM earnings WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var earnings []domain.Earning
	for rows.Next() {
		var e domain.Earning
		if err := scanEarning(rows, &e); err != nil {
			return nil, 0, err
		}
		earnings = append(earnings, e)
	}
	return earnings, count, rows.Err()
}
