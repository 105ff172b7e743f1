package postgres

import (
	"context"
	"database/sql"
	"errors"

	"roomstay-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.SeatRepository
	repository.BookingRepository
	repository.EarningRepository
	repository.PayoutRepository
	repository.PaymentRepository
	repository.PropertyRepository
	repository.UserRepository
	repository.NotificationRepository
	repository.AuditRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		SeatRepository:         NewSeatRepository(db),
		BookingRepository:      NewBookingRepository(db),
		EarningRepository:      NewEarningRepository(db),
		PayoutRepository:       NewPayoutRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		PropertyRepository:     NewPropertyRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		AuditRepository:        NewAuditRepository(db),
	}
}

type txKey struct{}

// WithinTx starts a transaction and threads it through the context so every
// repository call inside fn shares it. A nested call joins the transaction
// already in flight.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction carried in the context, or the pool.
func conn(ctx context.Context, db *sql.DB) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// mapError translates driver-level failures into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return repository.ErrDuplicateKey
		case "55P03":
			return repository.ErrLockTimeout
		}
	}
	return err
}
