package postgres

import (
	"context"
	"database/sql"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateIfAbsent(ctx context.Context, p *domain.Payment) (bool, error) {
	query := `INSERT INTO payments (user_id, booking_id, amount_cents, status, payment_method, transaction_id, payment_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (booking_id) DO NOTHING
	          RETURNING id`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		p.UserID, p.BookingID, p.AmountCents, p.Status, p.PaymentMethod, p.TransactionID, p.PaymentDate,
	).Scan(&p.ID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapError(err)
	}
	return true, nil
}

func (r *paymentRepository) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT id, user_id, booking_id, amount_cents, status, payment_method, transaction_id, payment_date
	          FROM payments WHERE booking_id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, bookingID).Scan(
		&p.ID, &p.UserID, &p.BookingID, &p.AmountCents, &p.Status, &p.PaymentMethod, &p.TransactionID, &p.PaymentDate)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) MarkRefunded(ctx context.Context, bookingID int32) error {
	query := `UPDATE payments SET status = $1 WHERE booking_id = $2`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, domain.PaymentStatusRefunded, bookingID)
	return mapError(err)
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM payments WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, booking_id, amount_cents, status, payment_method, transaction_id, payment_date
	          FROM payments WHERE user_id = $1 ORDER BY payment_date DESC LIMIT $2 OFFSET $3`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.BookingID, &p.AmountCents, &p.Status,
			&p.PaymentMethod, &p.TransactionID, &p.PaymentDate); err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, count, rows.Err()
}
