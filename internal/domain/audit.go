package domain

import "time"

type AuditAction string

const (
	AuditBookingCreate   AuditAction = "BOOKING_CREATE"
	AuditBookingApprove  AuditAction = "BOOKING_APPROVE"
	AuditBookingReject   AuditAction = "BOOKING_REJECT"
	AuditBookingCancel   AuditAction = "BOOKING_CANCEL"
	AuditBookingCheckIn  AuditAction = "BOOKING_CHECK_IN"
	AuditBookingCheckOut AuditAction = "BOOKING_CHECK_OUT"
	AuditSeatUpdate      AuditAction = "SEAT_UPDATE"
	AuditPayoutRequest   AuditAction = "PAYOUT_REQUEST"
	AuditPayoutProcess   AuditAction = "PAYOUT_PROCESS"
)

type AuditLog struct {
	ID         int32       `json:"id"`
	ActorID    *int32      `json:"actor_id,omitempty"`
	Action     AuditAction `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   int32       `json:"entity_id"`
	CreatedOn  time.Time   `json:"created_on"`
}
