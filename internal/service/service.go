package service

import (
	"context"

	"roomstay-backend/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error) // user, access token
}

type SeatService interface {
	EnsureSeats(ctx context.Context, propertyID int32) error
	ListSeats(ctx context.Context, propertyID int32) ([]domain.Seat, error)
	CountAvailable(ctx context.Context, propertyID int32) (int32, error)
	// ToggleSeat flips a seat between AVAILABLE and BLOCKED. Only the property
	// owner may toggle, and never an OCCUPIED seat.
	ToggleSeat(ctx context.Context, ownerID, seatID int32, block bool) (*domain.Seat, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, tenantID, propertyID int32, startDate, endDate string, notes string) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, landlordID, bookingID int32) (*domain.Booking, error)
	RejectBooking(ctx context.Context, landlordID, bookingID int32) (*domain.Booking, error)
	CancelBooking(ctx context.Context, actorID, bookingID int32, reason string) (*domain.Booking, error)
	CheckIn(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error)
	CheckOut(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, actorID, bookingID int32) error
	GetBooking(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, tenantID int32, page, pageSize int32) ([]domain.Booking, int32, error)
	ListPropertyBookings(ctx context.Context, landlordID int32, page, pageSize int32) ([]domain.Booking, int32, error)
}

type FinanceService interface {
	RequestPayout(ctx context.Context, ownerID int32) (*domain.PayoutRequest, error)
	ProcessPayoutRequest(ctx context.Context, adminID, requestID int32, approve bool, note string) (*domain.PayoutRequest, error)
	ListPayoutRequests(ctx context.Context, adminID int32, status string, page, pageSize int32) ([]domain.PayoutRequest, int32, error)
	GetEarningsSummary(ctx context.Context, ownerID int32) (*domain.EarningsSummary, error)
	ListEarnings(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Earning, int32, error)
	ListPayments(ctx context.Context, tenantID int32, page, pageSize int32) ([]domain.Payment, int32, error)

	AddPayoutMethod(ctx context.Context, ownerID int32, m *domain.PayoutMethod) (*domain.PayoutMethod, error)
	ListPayoutMethods(ctx context.Context, ownerID int32) ([]domain.PayoutMethod, error)
	DeletePayoutMethod(ctx context.Context, ownerID, methodID int32) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error
	SendBookingDecisionNotification(ctx context.Context, tenantEmail, propertyTitle, decision string) error
	SendBookingCancellationNotification(ctx context.Context, email, propertyTitle, reason string) error
	SendCheckOutNotification(ctx context.Context, ownerEmail, propertyTitle string, netCents int64) error
	SendStayReminderNotification(ctx context.Context, tenantEmail, propertyTitle, reminder string) error
	SendPayoutRequestedNotification(ctx context.Context, ownerEmail string, amountCents int64) error
	SendPayoutProcessedNotification(ctx context.Context, ownerEmail string, amountCents int64, status, note string) error
}
