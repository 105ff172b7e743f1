package domain

import "time"

type PropertyStatus string

const (
	PropertyStatusApproved PropertyStatus = "APPROVED"
	PropertyStatusRented   PropertyStatus = "RENTED"
)

// Property is a read model owned by the listing service. The core reads the
// owner, the bed count and the nightly price, and flips the status between
// APPROVED and RENTED as the last seat is claimed or released.
type Property struct {
	ID                 int32          `json:"id"`
	OwnerID            int32          `json:"owner_id"`
	Title              string         `json:"title"`
	BedCount           int32          `json:"bed_count"`
	PricePerNightCents int64          `json:"price_per_night_cents"`
	Status             PropertyStatus `json:"status"`
	CreatedOn          time.Time      `json:"created_on"`
}
