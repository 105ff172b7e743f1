// Package repository defines the data-access interfaces plus the sentinel
// errors shared by their implementations. Services translate these into
// caller-facing business errors.
package repository

import "errors"

// ErrVersionConflict is returned by compare-and-swap updates when the row's
// optimistic version no longer matches; another transaction won the race.
var ErrVersionConflict = errors.New("version conflict")

// ErrDuplicateKey is returned when an insert violates a unique constraint,
// e.g. a retried payout submission reusing an idempotency key.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrLockTimeout is returned when the database gave up waiting for a row
// lock. The operation is safe to retry.
var ErrLockTimeout = errors.New("lock wait timeout")
