package unit

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository"
	"roomstay-backend/internal/service"
)

type seatFixture struct {
	seats  *MockSeatRepo
	props  *MockPropertyRepo
	audits *MockAuditRepo
	svc    service.SeatService
}

func newSeatFixture() *seatFixture {
	f := &seatFixture{
		seats:  new(MockSeatRepo),
		props:  new(MockPropertyRepo),
		audits: new(MockAuditRepo),
	}
	f.audits.On("Append", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.svc = service.NewSeatService(
		passthroughTxManager{},
		f.seats,
		f.props,
		service.NewAuditService(f.audits),
	)
	return f
}

func TestEnsureSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions seats up to the bed count", func(t *testing.T) {
		f := newSeatFixture()
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)
		f.seats.On("EnsureSeats", ctx, int32(10), int32(3)).Return(nil)

		err := f.svc.EnsureSeats(ctx, 10)
		require.NoError(t, err)
		f.seats.AssertExpectations(t)
	})

	t.Run("unknown property", func(t *testing.T) {
		f := newSeatFixture()
		f.props.On("GetByID", ctx, int32(99)).Return(nil, sql.ErrNoRows)

		err := f.svc.EnsureSeats(ctx, 99)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestToggleSeat(t *testing.T) {
	ctx := context.Background()

	t.Run("owner blocks an available seat", func(t *testing.T) {
		f := newSeatFixture()
		f.seats.On("GetByIDForUpdate", ctx, int32(5)).Return(&domain.Seat{ID: 5, PropertyID: 10, Status: domain.SeatStatusAvailable}, nil)
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)
		f.seats.On("SetStatus", ctx, int32(5), domain.SeatStatusBlocked).Return(nil)

		seat, err := f.svc.ToggleSeat(ctx, 2, 5, true)
		require.NoError(t, err)
		assert.Equal(t, domain.SeatStatusBlocked, seat.Status)
		f.seats.AssertExpectations(t)
	})

	t.Run("unblocking an already available seat is a no-op", func(t *testing.T) {
		f := newSeatFixture()
		f.seats.On("GetByIDForUpdate", ctx, int32(5)).Return(&domain.Seat{ID: 5, PropertyID: 10, Status: domain.SeatStatusAvailable}, nil)
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)

		seat, err := f.svc.ToggleSeat(ctx, 2, 5, false)
		require.NoError(t, err)
		assert.Equal(t, domain.SeatStatusAvailable, seat.Status)
		f.seats.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a seat that was claimed by the time the lock is granted cannot be toggled", func(t *testing.T) {
		// The locking read observes the status as of lock grant, so a seat
		// occupied by a concurrent confirmation is rejected here rather
		// than silently overwritten.
		f := newSeatFixture()
		f.seats.On("GetByIDForUpdate", ctx, int32(5)).Return(&domain.Seat{ID: 5, PropertyID: 10, Status: domain.SeatStatusOccupied}, nil)
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)

		_, err := f.svc.ToggleSeat(ctx, 2, 5, true)
		assert.ErrorIs(t, err, service.ErrInvalidStateTransition)
		f.seats.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lock wait timeout surfaces as retry later", func(t *testing.T) {
		f := newSeatFixture()
		f.seats.On("GetByIDForUpdate", ctx, int32(5)).Return(nil, repository.ErrLockTimeout)

		_, err := f.svc.ToggleSeat(ctx, 2, 5, true)
		assert.ErrorIs(t, err, service.ErrRetryLater)
	})

	t.Run("only the owner may toggle", func(t *testing.T) {
		f := newSeatFixture()
		f.seats.On("GetByIDForUpdate", ctx, int32(5)).Return(&domain.Seat{ID: 5, PropertyID: 10, Status: domain.SeatStatusAvailable}, nil)
		f.props.On("GetByID", ctx, int32(10)).Return(testProperty(), nil)

		_, err := f.svc.ToggleSeat(ctx, 42, 5, true)
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})
}
