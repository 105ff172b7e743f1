package domain

import "time"

type EarningStatus string

const (
	EarningStatusPending   EarningStatus = "PENDING"
	EarningStatusAvailable EarningStatus = "AVAILABLE"
	EarningStatusRequested EarningStatus = "REQUESTED"
	EarningStatusPaid      EarningStatus = "PAID"
	EarningStatusCancelled EarningStatus = "CANCELLED"
)

// Earning is the house owner's net proceeds from one booking. At most one
// earning exists per booking (unique booking_id).
type Earning struct {
	ID              int32         `json:"id"`
	UserID          int32         `json:"user_id"` // the house owner
	BookingID       int32         `json:"booking_id"`
	AmountCents     int64         `json:"amount_cents"` // gross
	CommissionCents int64         `json:"commission_cents"`
	NetAmountCents  int64         `json:"net_amount_cents"`
	Status          EarningStatus `json:"status"`
	PayoutRequestID *int32        `json:"payout_request_id,omitempty"`
	CreatedOn       time.Time     `json:"created_on"`
	UpdatedOn       time.Time     `json:"updated_on"`
}

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusPaid       PayoutStatus = "PAID"
	PayoutStatusRejected   PayoutStatus = "REJECTED"
)

// PayoutRequest is a batch claim on an owner's AVAILABLE earnings. The
// idempotency key is unique; Version guards admin processing against
// concurrent modification.
type PayoutRequest struct {
	ID             int32        `json:"id"`
	UserID         int32        `json:"user_id"`
	PayoutMethodID int32        `json:"payout_method_id"`
	AmountCents    int64        `json:"amount_cents"`
	Status         PayoutStatus `json:"status"`
	AdminNote      string       `json:"admin_note"`
	IdempotencyKey string       `json:"idempotency_key"`
	Version        int64        `json:"version"`
	ProcessedAt    *time.Time   `json:"processed_at,omitempty"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}

type PayoutMethodVerification string

const (
	PayoutMethodPending  PayoutMethodVerification = "PENDING"
	PayoutMethodVerified PayoutMethodVerification = "VERIFIED"
	PayoutMethodRejected PayoutMethodVerification = "REJECTED"
)

type PayoutMethod struct {
	ID                 int32                    `json:"id"`
	UserID             int32                    `json:"user_id"`
	BankName           string                   `json:"bank_name"`
	AccountNumber      string                   `json:"account_number"`
	AccountHolderName  string                   `json:"account_holder_name"`
	RoutingNumber      string                   `json:"routing_number"`
	Currency           string                   `json:"currency"`
	IsDefault          bool                     `json:"is_default"`
	VerificationStatus PayoutMethodVerification `json:"verification_status"`
	CreatedOn          time.Time                `json:"created_on"`
}

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payment mirrors the tenant side of a confirmed booking. One per booking.
type Payment struct {
	ID            int32         `json:"id"`
	UserID        int32         `json:"user_id"` // the tenant
	BookingID     int32         `json:"booking_id"`
	AmountCents   int64         `json:"amount_cents"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod string        `json:"payment_method"`
	TransactionID string        `json:"transaction_id"`
	PaymentDate   time.Time     `json:"payment_date"`
}

// EarningsSummary aggregates an owner's earnings by lifecycle bucket.
type EarningsSummary struct {
	TotalCents     int64 `json:"total_cents"`
	PendingCents   int64 `json:"pending_cents"`
	AvailableCents int64 `json:"available_cents"`
	RequestedCents int64 `json:"requested_cents"`
	PaidCents      int64 `json:"paid_cents"`
}
