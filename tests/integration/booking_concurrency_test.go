package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/service"
)

// Ten landlord approvals race for a three-bed property; exactly three may win.
func TestConcurrentConfirmations_Integration(t *testing.T) {
	db := prepareDB(t)
	defer db.Close()

	svcs := newTestServices(db)
	ctx := context.Background()

	ownerID := seedUser(t, db, domain.UserRoleHouseOwner)
	propertyID := seedProperty(t, db, ownerID, 3, 10000)

	const competitors = 10
	bookingIDs := make([]int32, 0, competitors)
	for i := 0; i < competitors; i++ {
		tenantID := seedUser(t, db, domain.UserRoleTenant)
		booking, err := svcs.booking.CreateBooking(ctx, tenantID, propertyID, "2026-09-01", "2026-09-05", "")
		require.NoError(t, err)
		bookingIDs = append(bookingIDs, booking.ID)
	}

	var wg sync.WaitGroup
	results := make(chan error, competitors)
	for _, id := range bookingIDs {
		wg.Add(1)
		go func(bookingID int32) {
			defer wg.Done()
			_, err := svcs.booking.ConfirmBooking(ctx, ownerID, bookingID)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	confirmed, soldOut := 0, 0
	for err := range results {
		switch {
		case err == nil:
			confirmed++
		case errors.Is(err, service.ErrNoSeatsAvailable):
			soldOut++
		default:
			t.Fatalf("unexpected confirmation error: %v", err)
		}
	}
	assert.Equal(t, 3, confirmed, "exactly one confirmation per seat")
	assert.Equal(t, competitors-3, soldOut)

	var occupied int32
	err := db.QueryRow(`SELECT count(*) FROM seats WHERE property_id = $1 AND status = 'OCCUPIED'`, propertyID).Scan(&occupied)
	require.NoError(t, err)
	assert.Equal(t, int32(3), occupied)

	var distinctSeats int32
	err = db.QueryRow(`SELECT count(DISTINCT seat_id) FROM bookings WHERE property_id = $1 AND status = 'CONFIRMED'`, propertyID).Scan(&distinctSeats)
	require.NoError(t, err)
	assert.Equal(t, int32(3), distinctSeats, "no seat is shared between bookings")

	var propStatus string
	err = db.QueryRow(`SELECT status FROM properties WHERE id = $1`, propertyID).Scan(&propStatus)
	require.NoError(t, err)
	assert.Equal(t, "RENTED", propStatus)
}
