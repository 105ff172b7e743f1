package service

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrNotAuthorized           = errors.New("not authorized")
	ErrInvalidStateTransition  = errors.New("invalid state transition")
	ErrInvalidDateRange        = errors.New("end date must be after start date")
	ErrOwnBookingNotAllowed    = errors.New("owners cannot book their own property")
	ErrNoSeatsAvailable        = errors.New("no seats available")
	ErrNoAvailableEarnings     = errors.New("no available earnings to pay out")
	ErrPayoutMethodNotVerified = errors.New("payout method is not verified")
	ErrDuplicateSubmission     = errors.New("duplicate submission")
	ErrConcurrentModification  = errors.New("concurrent modification, reload and retry")
	ErrRetryLater              = errors.New("resource busy, retry later")
	ErrInvalidCredentials      = errors.New("invalid email or password")
)
