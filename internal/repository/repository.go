package repository

import (
	"context"
	"time"

	"roomstay-backend/internal/domain"
)

// TxManager runs fn inside one database transaction. The transaction is
// carried in the context; repository methods invoked with that context
// execute against it instead of the bare connection pool. fn returning an
// error rolls everything back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type SeatRepository interface {
	// EnsureSeats lazily creates "Bed N" seats for a property until it has
	// bedCount of them. Existing seats are never touched; concurrent calls
	// collide on the (property_id, label) constraint instead of duplicating.
	EnsureSeats(ctx context.Context, propertyID, bedCount int32) error
	// GetByIDForUpdate locks the seat row for the rest of the transaction
	// so a status change cannot race a concurrent claim or release.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Seat, error)
	ListByProperty(ctx context.Context, propertyID int32) ([]domain.Seat, error)
	// ClaimAvailable locks and occupies the first AVAILABLE seat of the
	// property, ordered by id. Must run inside a transaction. Returns
	// ErrNoRows when every seat is taken or locked by a competing claim.
	ClaimAvailable(ctx context.Context, propertyID int32) (*domain.Seat, error)
	// Release puts a seat back to AVAILABLE and stamps last_vacated_at.
	// Releasing an already AVAILABLE seat is a no-op.
	Release(ctx context.Context, seatID int32) error
	SetStatus(ctx context.Context, seatID int32, status domain.SeatStatus) error
	CountAvailable(ctx context.Context, propertyID int32) (int32, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// GetByIDForUpdate locks the booking row for the rest of the
	// transaction, serializing concurrent transitions of one booking.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	Delete(ctx context.Context, id int32) error
	ExistsOverlapping(ctx context.Context, propertyID int32, statuses []domain.BookingStatus, start, end time.Time) (bool, error)
	ListByTenant(ctx context.Context, tenantID int32, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByLandlord(ctx context.Context, landlordID int32, page, pageSize int32) ([]domain.Booking, int32, error)
}

type EarningRepository interface {
	// CreateIfAbsent inserts the earning unless one already exists for the
	// booking. Reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, e *domain.Earning) (bool, error)
	GetByBookingID(ctx context.Context, bookingID int32) (*domain.Earning, error)
	// UpdateStatusByBooking moves the booking's earning from one status to
	// another; a no-op when the earning is elsewhere in its lifecycle.
	UpdateStatusByBooking(ctx context.Context, bookingID int32, from, to domain.EarningStatus) error
	// LockAvailableByUser selects the owner's AVAILABLE earnings with row
	// locks held until the surrounding transaction ends.
	LockAvailableByUser(ctx context.Context, userID int32) ([]domain.Earning, error)
	AssignToPayoutRequest(ctx context.Context, earningIDs []int32, payoutRequestID int32) error
	// ResolvePayoutRequest moves every earning linked to the request from
	// REQUESTED to the given status; unlink also clears the link so the
	// earnings can be bundled into a later request.
	ResolvePayoutRequest(ctx context.Context, payoutRequestID int32, to domain.EarningStatus, unlink bool) error
	Summary(ctx context.Context, userID int32) (*domain.EarningsSummary, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Earning, int32, error)
}

type PayoutRepository interface {
	CreateRequest(ctx context.Context, pr *domain.PayoutRequest) error
	GetRequestByID(ctx context.Context, id int32) (*domain.PayoutRequest, error)
	// UpdateRequestStatusCAS applies an admin decision guarded by the
	// optimistic version column. Returns ErrVersionConflict when another
	// transaction processed the request first.
	UpdateRequestStatusCAS(ctx context.Context, id int32, version int64, status domain.PayoutStatus, note string) error
	ListRequests(ctx context.Context, status domain.PayoutStatus, page, pageSize int32) ([]domain.PayoutRequest, int32, error)

	CreateMethod(ctx context.Context, m *domain.PayoutMethod) error
	GetMethodByID(ctx context.Context, id int32) (*domain.PayoutMethod, error)
	// GetPreferredMethod returns the owner's default method, or the oldest
	// one when no default is flagged.
	GetPreferredMethod(ctx context.Context, userID int32) (*domain.PayoutMethod, error)
	ListMethods(ctx context.Context, userID int32) ([]domain.PayoutMethod, error)
	DeleteMethod(ctx context.Context, id int32) error
}

type PaymentRepository interface {
	CreateIfAbsent(ctx context.Context, p *domain.Payment) (bool, error)
	GetByBookingID(ctx context.Context, bookingID int32) (*domain.Payment, error)
	MarkRefunded(ctx context.Context, bookingID int32) error
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error)
}

type PropertyRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Property, error)
	// GetByIDForUpdate locks the property row, serializing status
	// recomputations against competing seat claims and releases.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Property, error)
	UpdateStatus(ctx context.Context, id int32, status domain.PropertyStatus) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditLog) error
}
