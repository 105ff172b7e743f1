package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusRejected   BookingStatus = "REJECTED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
)

// IsTerminal reports whether no further lifecycle transition is allowed
// out of the status.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusRejected, BookingStatusCancelled, BookingStatusCheckedOut:
		return true
	}
	return false
}

type Booking struct {
	ID         int32  `json:"id"`
	PropertyID int32  `json:"property_id"`
	TenantID   int32  `json:"tenant_id"`
	// Denormalized from the property's owner at creation time.
	LandlordID int32 `json:"landlord_id"`
	// SeatID is set when a seat is claimed at confirmation and cleared
	// when the seat is released. The seats table is the single source of
	// truth for occupancy; this is the back-reference.
	SeatID          *int32        `json:"seat_id,omitempty"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	Status          BookingStatus `json:"status"`
	TotalPriceCents int64         `json:"total_price_cents"`
	CommissionCents int64         `json:"commission_cents"`
	NetAmountCents  int64         `json:"net_amount_cents"`
	Notes           string        `json:"notes"`
	CheckInTime     *time.Time    `json:"check_in_time,omitempty"`
	CheckOutTime    *time.Time    `json:"check_out_time,omitempty"`
	CreatedOn       time.Time     `json:"created_on"`
	UpdatedOn       time.Time     `json:"updated_on"`
}
