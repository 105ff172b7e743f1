package unit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository"
	"roomstay-backend/internal/service"
)

type bookingFixture struct {
	bookings *MockBookingRepo
	seats    *MockSeatRepo
	props    *MockPropertyRepo
	earnings *MockEarningRepo
	payments *MockPaymentRepo
	users    *MockUserRepo
	notes    *MockNotificationRepo
	audits   *MockAuditRepo
	email    *MockEmailService
	svc      service.BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings: new(MockBookingRepo),
		seats:    new(MockSeatRepo),
		props:    new(MockPropertyRepo),
		earnings: new(MockEarningRepo),
		payments: new(MockPaymentRepo),
		users:    new(MockUserRepo),
		notes:    new(MockNotificationRepo),
		audits:   new(MockAuditRepo),
		email:    new(MockEmailService),
	}
	f.svc = service.NewBookingService(
		passthroughTxManager{},
		f.bookings,
		f.seats,
		f.props,
		f.earnings,
		f.payments,
		f.users,
		f.email,
		service.NewDispatcher(f.notes),
		service.NewAuditService(f.audits),
		0.05,
	)
	return f
}

// allowPostCommit registers catch-all expectations for the best-effort
// audit, notification and email side effects so tests can focus on the
// transactional work. The nil user lookup short-circuits email sending.
func (f *bookingFixture) allowPostCommit() {
	f.audits.On("Append", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.notes.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.users.On("GetByID", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows).Maybe()
	f.props.On("GetByID", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows).Maybe()
}

func testProperty() *domain.Property {
	return &domain.Property{
		ID:                 10,
		OwnerID:            2,
		Title:              "Maple House",
		BedCount:           3,
		PricePerNightCents: 10000,
		Status:             domain.PropertyStatusApproved,
	}
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:              77,
		PropertyID:      10,
		TenantID:        1,
		LandlordID:      2,
		StartDate:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		Status:          domain.BookingStatusPending,
		TotalPriceCents: 20000,
		CommissionCents: 1000,
		NetAmountCents:  19000,
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending booking with the priced quote", func(t *testing.T) {
		f := newBookingFixture()
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)
		f.seats.On("EnsureSeats", ctx, int32(10), int32(3)).Return(nil)
		f.bookings.On("ExistsOverlapping", ctx, int32(10), mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		f.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusPending &&
				b.TenantID == 1 && b.LandlordID == 2 &&
				b.TotalPriceCents == 20000 &&
				b.CommissionCents == 1000 &&
				b.NetAmountCents == 19000 &&
				b.SeatID == nil
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Booking).ID = 77
		}).Return(nil)
		f.allowPostCommit()

		booking, err := f.svc.CreateBooking(ctx, 1, 10, "2026-09-01", "2026-09-03", "late arrival")
		require.NoError(t, err)
		assert.Equal(t, int32(77), booking.ID)
		assert.Equal(t, domain.BookingStatusPending, booking.Status)
		f.bookings.AssertExpectations(t)
	})

	t.Run("rejects booking your own property", func(t *testing.T) {
		f := newBookingFixture()
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)

		_, err := f.svc.CreateBooking(ctx, 2, 10, "2026-09-01", "2026-09-03", "")
		assert.ErrorIs(t, err, service.ErrOwnBookingNotAllowed)
	})

	t.Run("rejects an inverted date range", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.svc.CreateBooking(ctx, 1, 10, "2026-09-03", "2026-09-01", "")
		assert.ErrorIs(t, err, service.ErrInvalidDateRange)
	})

	t.Run("rejects when overlapping stays exhaust every seat", func(t *testing.T) {
		f := newBookingFixture()
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)
		f.seats.On("EnsureSeats", ctx, int32(10), int32(3)).Return(nil)
		f.bookings.On("ExistsOverlapping", ctx, int32(10), mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
		f.seats.On("CountAvailable", ctx, int32(10)).Return(int32(0), nil)

		_, err := f.svc.CreateBooking(ctx, 1, 10, "2026-09-01", "2026-09-03", "")
		assert.ErrorIs(t, err, service.ErrNoSeatsAvailable)
	})

	t.Run("unknown property", func(t *testing.T) {
		f := newBookingFixture()
		f.props.On("GetByID", ctx, int32(99)).Return(nil, sql.ErrNoRows)

		_, err := f.svc.CreateBooking(ctx, 1, 99, "2026-09-01", "2026-09-03", "")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestConfirmBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("claims a seat and records earning and payment", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(pendingBooking(), nil)
		f.seats.On("ClaimAvailable", ctx, int32(10)).Return(&domain.Seat{ID: 5, PropertyID: 10, Status: domain.SeatStatusOccupied}, nil)
		f.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusConfirmed && b.SeatID != nil && *b.SeatID == 5
		})).Return(nil)
		f.earnings.On("CreateIfAbsent", ctx, mock.MatchedBy(func(e *domain.Earning) bool {
			return e.UserID == 2 && e.BookingID == 77 &&
				e.NetAmountCents == 19000 && e.Status == domain.EarningStatusPending
		})).Return(true, nil)
		f.payments.On("CreateIfAbsent", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.UserID == 1 && p.BookingID == 77 &&
				p.AmountCents == 20000 && p.Status == domain.PaymentStatusCompleted &&
				p.TransactionID != ""
		})).Return(true, nil)
		f.props.On("GetByIDForUpdate", ctx, int32(10)).Return(testProperty(), nil)
		f.seats.On("CountAvailable", ctx, int32(10)).Return(int32(0), nil)
		f.props.On("UpdateStatus", ctx, int32(10), domain.PropertyStatusRented).Return(nil)
		f.allowPostCommit()

		booking, err := f.svc.ConfirmBooking(ctx, 2, 77)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
		require.NotNil(t, booking.SeatID)
		assert.Equal(t, int32(5), *booking.SeatID)
		f.seats.AssertExpectations(t)
		f.earnings.AssertExpectations(t)
		f.payments.AssertExpectations(t)
	})

	t.Run("only the landlord may confirm", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(pendingBooking(), nil)

		_, err := f.svc.ConfirmBooking(ctx, 1, 77)
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})

	t.Run("only a pending booking may be confirmed", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusConfirmed
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)

		_, err := f.svc.ConfirmBooking(ctx, 2, 77)
		assert.ErrorIs(t, err, service.ErrInvalidStateTransition)
	})

	t.Run("no free seat", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(pendingBooking(), nil)
		f.seats.On("ClaimAvailable", ctx, int32(10)).Return(nil, sql.ErrNoRows)

		_, err := f.svc.ConfirmBooking(ctx, 2, 77)
		assert.ErrorIs(t, err, service.ErrNoSeatsAvailable)
	})

	t.Run("lock timeout surfaces as retry later", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(pendingBooking(), nil)
		f.seats.On("ClaimAvailable", ctx, int32(10)).Return(nil, repository.ErrLockTimeout)

		_, err := f.svc.ConfirmBooking(ctx, 2, 77)
		assert.ErrorIs(t, err, service.ErrRetryLater)
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int32(404)).Return(nil, sql.ErrNoRows)

		_, err := f.svc.ConfirmBooking(ctx, 2, 404)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestRejectBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a pending booking", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(pendingBooking(), nil)
		f.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusRejected
		})).Return(nil)
		f.allowPostCommit()

		booking, err := f.svc.RejectBooking(ctx, 2, 77)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusRejected, booking.Status)
	})

	t.Run("cannot reject once confirmed", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusConfirmed
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)

		_, err := f.svc.RejectBooking(ctx, 2, 77)
		assert.ErrorIs(t, err, service.ErrInvalidStateTransition)
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("tenant cancels a pending booking", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(pendingBooking(), nil)
		f.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusCancelled
		})).Return(nil)
		f.allowPostCommit()

		booking, err := f.svc.CancelBooking(ctx, 1, 77, "plans changed")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, booking.Status)
		f.seats.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
		f.payments.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything)
	})

	t.Run("cancelling a confirmed booking frees the seat and refunds", func(t *testing.T) {
		f := newBookingFixture()
		seatID := int32(5)
		b := pendingBooking()
		b.Status = domain.BookingStatusConfirmed
		b.SeatID = &seatID
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)
		f.seats.On("Release", ctx, int32(5)).Return(nil)
		f.props.On("GetByIDForUpdate", ctx, int32(10)).Return(testProperty(), nil)
		f.seats.On("CountAvailable", ctx, int32(10)).Return(int32(1), nil)
		f.props.On("UpdateStatus", ctx, int32(10), domain.PropertyStatusApproved).Return(nil)
		f.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusCancelled && b.SeatID == nil
		})).Return(nil)
		f.earnings.On("UpdateStatusByBooking", ctx, int32(77), domain.EarningStatusPending, domain.EarningStatusCancelled).Return(nil)
		f.payments.On("MarkRefunded", ctx, int32(77)).Return(nil)
		f.allowPostCommit()

		booking, err := f.svc.CancelBooking(ctx, 2, 77, "renovation")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, booking.Status)
		assert.Nil(t, booking.SeatID)
		f.seats.AssertExpectations(t)
		f.earnings.AssertExpectations(t)
		f.payments.AssertExpectations(t)
	})

	t.Run("a stranger may not cancel", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(pendingBooking(), nil)

		_, err := f.svc.CancelBooking(ctx, 42, 77, "")
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})

	t.Run("cannot cancel after check-in", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusCheckedIn
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)

		_, err := f.svc.CancelBooking(ctx, 1, 77, "")
		assert.ErrorIs(t, err, service.ErrInvalidStateTransition)
	})

	t.Run("cannot cancel a completed booking", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusCheckedOut
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)

		_, err := f.svc.CancelBooking(ctx, 1, 77, "")
		assert.ErrorIs(t, err, service.ErrInvalidStateTransition)
		f.seats.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})
}

func TestCheckInCheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("check-in stamps the time", func(t *testing.T) {
		f := newBookingFixture()
		seatID := int32(5)
		b := pendingBooking()
		b.Status = domain.BookingStatusConfirmed
		b.SeatID = &seatID
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)
		f.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusCheckedIn && b.CheckInTime != nil
		})).Return(nil)
		f.allowPostCommit()

		booking, err := f.svc.CheckIn(ctx, 1, 77)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCheckedIn, booking.Status)
	})

	t.Run("check-in by the tenant notifies the landlord", func(t *testing.T) {
		f := newBookingFixture()
		seatID := int32(5)
		b := pendingBooking()
		b.Status = domain.BookingStatusConfirmed
		b.SeatID = &seatID
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)
		f.bookings.On("Update", ctx, mock.Anything).Return(nil)
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)
		f.users.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Email: "owner@roomstay.local"}, nil)
		f.notes.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == 2
		})).Return(nil)
		f.allowPostCommit()

		_, err := f.svc.CheckIn(ctx, 1, 77)
		require.NoError(t, err)
		f.notes.AssertExpectations(t)
	})

	t.Run("check-in requires a confirmed booking", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(pendingBooking(), nil)

		_, err := f.svc.CheckIn(ctx, 1, 77)
		assert.ErrorIs(t, err, service.ErrInvalidStateTransition)
	})

	t.Run("check-out frees the seat and makes the earning available", func(t *testing.T) {
		f := newBookingFixture()
		seatID := int32(5)
		b := pendingBooking()
		b.Status = domain.BookingStatusCheckedIn
		b.SeatID = &seatID
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)
		f.seats.On("Release", ctx, int32(5)).Return(nil)
		f.props.On("GetByIDForUpdate", ctx, int32(10)).Return(testProperty(), nil)
		f.seats.On("CountAvailable", ctx, int32(10)).Return(int32(1), nil)
		f.props.On("UpdateStatus", ctx, int32(10), domain.PropertyStatusApproved).Return(nil)
		f.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusCheckedOut && b.CheckOutTime != nil && b.SeatID == nil
		})).Return(nil)
		f.earnings.On("UpdateStatusByBooking", ctx, int32(77), domain.EarningStatusPending, domain.EarningStatusAvailable).Return(nil)
		f.allowPostCommit()

		booking, err := f.svc.CheckOut(ctx, 1, 77)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCheckedOut, booking.Status)
		f.earnings.AssertExpectations(t)
	})

	t.Run("check-out by the landlord notifies the tenant, not the landlord", func(t *testing.T) {
		f := newBookingFixture()
		seatID := int32(5)
		b := pendingBooking()
		b.Status = domain.BookingStatusCheckedIn
		b.SeatID = &seatID
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)
		f.seats.On("Release", ctx, int32(5)).Return(nil)
		f.props.On("GetByIDForUpdate", ctx, int32(10)).Return(testProperty(), nil)
		f.seats.On("CountAvailable", ctx, int32(10)).Return(int32(1), nil)
		f.props.On("UpdateStatus", ctx, int32(10), domain.PropertyStatusApproved).Return(nil)
		f.bookings.On("Update", ctx, mock.Anything).Return(nil)
		f.earnings.On("UpdateStatusByBooking", ctx, int32(77), domain.EarningStatusPending, domain.EarningStatusAvailable).Return(nil)
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Email: "tenant@roomstay.local"}, nil)
		f.notes.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == 1
		})).Return(nil)
		f.allowPostCommit()

		_, err := f.svc.CheckOut(ctx, 2, 77)
		require.NoError(t, err)
		f.notes.AssertExpectations(t)
		f.email.AssertNotCalled(t, "SendCheckOutNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("check-out requires a checked-in booking", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusConfirmed
		f.bookings.On("GetByIDForUpdate", ctx, int32(77)).Return(b, nil)

		_, err := f.svc.CheckOut(ctx, 1, 77)
		assert.ErrorIs(t, err, service.ErrInvalidStateTransition)
	})
}

func TestGetBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("parties may read the booking", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByID", ctx, int32(77)).Return(pendingBooking(), nil)

		booking, err := f.svc.GetBooking(ctx, 1, 77)
		require.NoError(t, err)
		assert.Equal(t, int32(77), booking.ID)
	})

	t.Run("strangers may not", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByID", ctx, int32(77)).Return(pendingBooking(), nil)

		_, err := f.svc.GetBooking(ctx, 42, 77)
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})
}
