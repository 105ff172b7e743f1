package utils

import (
	"fmt"
	"time"
)

// BookingQuote is the priced breakdown of a stay.
type BookingQuote struct {
	Nights          int32
	TotalPriceCents int64
	CommissionCents int64
	NetAmountCents  int64
}

// ParseStayDates parses yyyy-mm-dd start and end dates and validates that the
// stay covers at least one night.
func ParseStayDates(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %v", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %v", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must be after start date")
	}
	return start, end, nil
}

// Nights counts the nights between check-in and check-out dates. The
// check-out day itself is not charged.
func Nights(start, end time.Time) int32 {
	return int32(end.Sub(start).Hours() / 24)
}

// QuoteBooking prices a stay: nights times the nightly rate, with the
// platform commission carved out of the total. commissionRate is a fraction,
// e.g. 0.05. Commission truncates toward zero.
func QuoteBooking(start, end time.Time, pricePerNightCents int64, commissionRate float64) BookingQuote {
	nights := Nights(start, end)
	total := int64(nights) * pricePerNightCents
	commission := int64(float64(total) * commissionRate)
	return BookingQuote{
		Nights:          nights,
		TotalPriceCents: total,
		CommissionCents: commission,
		NetAmountCents:  total - commission,
	}
}

// MaskAccountNumber hides all but the last four digits of a bank account
// number for display.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	masked := make([]byte, len(accountNumber)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + accountNumber[len(accountNumber)-4:]
}
