package domain

import "time"

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusOccupied  SeatStatus = "OCCUPIED"
	SeatStatusBlocked   SeatStatus = "BLOCKED"
)

// Seat is one bookable bed within a property. Seat rows are only ever
// transitioned while the row is exclusively locked; see the seat repository.
type Seat struct {
	ID            int32      `json:"id"`
	PropertyID    int32      `json:"property_id"`
	Label         string     `json:"label"` // "Bed 1", "Bed 2", ...
	Status        SeatStatus `json:"status"`
	LastVacatedAt *time.Time `json:"last_vacated_at,omitempty"`
	CreatedOn     time.Time  `json:"created_on"`
	UpdatedOn     time.Time  `json:"updated_on"`
}
