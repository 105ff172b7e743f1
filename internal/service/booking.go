package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/logger"
	"roomstay-backend/internal/repository"
	"roomstay-backend/internal/utils"
)

type bookingService struct {
	txm            repository.TxManager
	bookingRepo    repository.BookingRepository
	seatRepo       repository.SeatRepository
	propRepo       repository.PropertyRepository
	earnRepo       repository.EarningRepository
	payRepo        repository.PaymentRepository
	userRepo       repository.UserRepository
	emailSvc       EmailService
	dispatcher     *Dispatcher
	auditSvc       *AuditService
	commissionRate float64
}

func NewBookingService(
	txm repository.TxManager,
	bookingRepo repository.BookingRepository,
	seatRepo repository.SeatRepository,
	propRepo repository.PropertyRepository,
	earnRepo repository.EarningRepository,
	payRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	dispatcher *Dispatcher,
	auditSvc *AuditService,
	commissionRate float64,
) BookingService {
	return &bookingService{
		txm:            txm,
		bookingRepo:    bookingRepo,
		seatRepo:       seatRepo,
		propRepo:       propRepo,
		earnRepo:       earnRepo,
		payRepo:        payRepo,
		userRepo:       userRepo,
		emailSvc:       emailSvc,
		dispatcher:     dispatcher,
		auditSvc:       auditSvc,
		commissionRate: commissionRate,
	}
}

// occupyingStatuses are the booking statuses that hold a seat for a date range.
var occupyingStatuses = []domain.BookingStatus{
	domain.BookingStatusConfirmed,
	domain.BookingStatusCheckedIn,
}

func (s *bookingService) CreateBooking(ctx context.Context, tenantID, propertyID int32, startDate, endDate string, notes string) (*domain.Booking, error) {
	start, end, err := utils.ParseStayDates(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}

	prop, err := s.propRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if prop.OwnerID == tenantID {
		return nil, ErrOwnBookingNotAllowed
	}

	if err := s.seatRepo.EnsureSeats(ctx, propertyID, prop.BedCount); err != nil {
		return nil, err
	}

	overlapping, err := s.bookingRepo.ExistsOverlapping(ctx, propertyID, occupyingStatuses, start, end)
	if err != nil {
		return nil, err
	}
	if overlapping {
		// Advisory only: the property may still have free seats for the
		// range, but a fully occupied one is rejected up front.
		available, err := s.seatRepo.CountAvailable(ctx, propertyID)
		if err != nil {
			return nil, err
		}
		if available == 0 {
			return nil, ErrNoSeatsAvailable
		}
	}

	quote := utils.QuoteBooking(start, end, prop.PricePerNightCents, s.commissionRate)
	booking := &domain.Booking{
		PropertyID:      propertyID,
		TenantID:        tenantID,
		LandlordID:      prop.OwnerID,
		StartDate:       start,
		EndDate:         end,
		Status:          domain.BookingStatusPending,
		TotalPriceCents: quote.TotalPriceCents,
		CommissionCents: quote.CommissionCents,
		NetAmountCents:  quote.NetAmountCents,
		Notes:           notes,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, &tenantID, domain.AuditBookingCreate, "booking", booking.ID)
	s.dispatcher.Notify(ctx, prop.OwnerID, domain.NotificationTypeBookingRequest,
		"New Booking Request",
		fmt.Sprintf("A tenant requested to book %s from %s to %s", prop.Title, startDate, endDate),
		fmt.Sprintf("/bookings/%d", booking.ID))

	owner, _ := s.userRepo.GetByID(ctx, prop.OwnerID)
	tenant, _ := s.userRepo.GetByID(ctx, tenantID)
	if owner != nil && tenant != nil {
		_ = s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, tenant.Name, prop.Title)
	}

	logger.Info("booking created", "booking_id", booking.ID, "property_id", propertyID, "tenant_id", tenantID)
	return booking, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, landlordID, bookingID int32) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.lockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.LandlordID != landlordID {
			return ErrNotAuthorized
		}
		if booking.Status != domain.BookingStatusPending {
			return fmt.Errorf("%w: cannot confirm a %s booking", ErrInvalidStateTransition, booking.Status)
		}

		seat, err := s.seatRepo.ClaimAvailable(ctx, booking.PropertyID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoSeatsAvailable
			}
			if errors.Is(err, repository.ErrLockTimeout) {
				return ErrRetryLater
			}
			return err
		}

		booking.SeatID = &seat.ID
		booking.Status = domain.BookingStatusConfirmed
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return err
		}

		inserted, err := s.earnRepo.CreateIfAbsent(ctx, &domain.Earning{
			UserID:          booking.LandlordID,
			BookingID:       booking.ID,
			AmountCents:     booking.TotalPriceCents,
			CommissionCents: booking.CommissionCents,
			NetAmountCents:  booking.NetAmountCents,
			Status:          domain.EarningStatusPending,
		})
		if err != nil {
			return err
		}
		if !inserted {
			logger.Warn("earning already recorded", "booking_id", booking.ID)
		}

		if _, err := s.payRepo.CreateIfAbsent(ctx, &domain.Payment{
			UserID:        booking.TenantID,
			BookingID:     booking.ID,
			AmountCents:   booking.TotalPriceCents,
			Status:        domain.PaymentStatusCompleted,
			PaymentMethod: "platform_balance",
			TransactionID: uuid.New().String(),
			PaymentDate:   time.Now(),
		}); err != nil {
			return err
		}

		return s.syncPropertyStatus(ctx, booking.PropertyID)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, &landlordID, domain.AuditBookingApprove, "booking", booking.ID)
	s.notifyDecision(ctx, booking, "approved")
	logger.Info("booking confirmed", "booking_id", booking.ID, "seat_id", *booking.SeatID)
	return booking, nil
}

func (s *bookingService) RejectBooking(ctx context.Context, landlordID, bookingID int32) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.lockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.LandlordID != landlordID {
			return ErrNotAuthorized
		}
		if booking.Status != domain.BookingStatusPending {
			return fmt.Errorf("%w: cannot reject a %s booking", ErrInvalidStateTransition, booking.Status)
		}
		booking.Status = domain.BookingStatusRejected
		return s.bookingRepo.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, &landlordID, domain.AuditBookingReject, "booking", booking.ID)
	s.notifyDecision(ctx, booking, "rejected")
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actorID, bookingID int32, reason string) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.lockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.TenantID != actorID && booking.LandlordID != actorID {
			return ErrNotAuthorized
		}
		if booking.Status.IsTerminal() {
			return fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidStateTransition, booking.Status)
		}
		if booking.Status == domain.BookingStatusCheckedIn {
			return fmt.Errorf("%w: a checked-in booking must be checked out", ErrInvalidStateTransition)
		}

		wasConfirmed := booking.Status == domain.BookingStatusConfirmed
		if err := s.releaseSeat(ctx, booking); err != nil {
			return err
		}
		booking.Status = domain.BookingStatusCancelled
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return err
		}

		if wasConfirmed {
			// Refund path: the earning never reached PAID at this point, so
			// drop it and flag the tenant's payment refunded.
			if err := s.earnRepo.UpdateStatusByBooking(ctx, booking.ID, domain.EarningStatusPending, domain.EarningStatusCancelled); err != nil {
				return err
			}
			if err := s.payRepo.MarkRefunded(ctx, booking.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, &actorID, domain.AuditBookingCancel, "booking", booking.ID)
	s.notifyCancellation(ctx, booking, actorID, reason)
	logger.Info("booking cancelled", "booking_id", booking.ID, "actor_id", actorID)
	return booking, nil
}

func (s *bookingService) CheckIn(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.lockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.TenantID != actorID && booking.LandlordID != actorID {
			return ErrNotAuthorized
		}
		if booking.Status != domain.BookingStatusConfirmed {
			return fmt.Errorf("%w: cannot check in a %s booking", ErrInvalidStateTransition, booking.Status)
		}
		now := time.Now()
		booking.Status = domain.BookingStatusCheckedIn
		booking.CheckInTime = &now
		return s.bookingRepo.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, &actorID, domain.AuditBookingCheckIn, "booking", booking.ID)
	prop, _ := s.propRepo.GetByID(ctx, booking.PropertyID)
	other, _ := s.userRepo.GetByID(ctx, counterpartyID(booking, actorID))
	if prop != nil && other != nil {
		s.dispatcher.Notify(ctx, other.ID, domain.NotificationTypeBookingUpdate,
			"Stay Started",
			fmt.Sprintf("Check-in recorded for %s", prop.Title),
			fmt.Sprintf("/bookings/%d", booking.ID))
	}
	logger.Info("booking checked in", "booking_id", booking.ID)
	return booking, nil
}

func (s *bookingService) CheckOut(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.lockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.TenantID != actorID && booking.LandlordID != actorID {
			return ErrNotAuthorized
		}
		if booking.Status != domain.BookingStatusCheckedIn {
			return fmt.Errorf("%w: cannot check out a %s booking", ErrInvalidStateTransition, booking.Status)
		}

		if err := s.releaseSeat(ctx, booking); err != nil {
			return err
		}
		now := time.Now()
		booking.Status = domain.BookingStatusCheckedOut
		booking.CheckOutTime = &now
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return err
		}
		return s.earnRepo.UpdateStatusByBooking(ctx, booking.ID, domain.EarningStatusPending, domain.EarningStatusAvailable)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, &actorID, domain.AuditBookingCheckOut, "booking", booking.ID)
	prop, _ := s.propRepo.GetByID(ctx, booking.PropertyID)
	other, _ := s.userRepo.GetByID(ctx, counterpartyID(booking, actorID))
	if prop != nil && other != nil {
		message := fmt.Sprintf("The stay at %s has ended", prop.Title)
		if other.ID == booking.LandlordID {
			message = fmt.Sprintf("The stay at %s has ended, earnings are now available", prop.Title)
			_ = s.emailSvc.SendCheckOutNotification(ctx, other.Email, prop.Title, booking.NetAmountCents)
		}
		s.dispatcher.Notify(ctx, other.ID, domain.NotificationTypeBookingUpdate,
			"Stay Completed", message,
			fmt.Sprintf("/bookings/%d", booking.ID))
	}
	logger.Info("booking checked out", "booking_id", booking.ID)
	return booking, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, actorID, bookingID int32) error {
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		booking, err := s.lockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.TenantID != actorID && booking.LandlordID != actorID {
			return ErrNotAuthorized
		}
		if err := s.releaseSeat(ctx, booking); err != nil {
			return err
		}
		return s.bookingRepo.Delete(ctx, bookingID)
	})
	if err != nil {
		return err
	}

	s.auditSvc.Record(ctx, &actorID, domain.AuditBookingCancel, "booking", bookingID)
	logger.Info("booking deleted", "booking_id", bookingID, "actor_id", actorID)
	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.TenantID != actorID && booking.LandlordID != actorID {
		return nil, ErrNotAuthorized
	}
	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, tenantID int32, page, pageSize int32) ([]domain.Booking, int32, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.bookingRepo.ListByTenant(ctx, tenantID, page, pageSize)
}

func (s *bookingService) ListPropertyBookings(ctx context.Context, landlordID int32, page, pageSize int32) ([]domain.Booking, int32, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.bookingRepo.ListByLandlord(ctx, landlordID, page, pageSize)
}

func (s *bookingService) lockBooking(ctx context.Context, bookingID int32) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByIDForUpdate(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrLockTimeout) {
			return nil, ErrRetryLater
		}
		return nil, err
	}
	return booking, nil
}

// releaseSeat frees the booking's seat, if one is assigned, and flips the
// property back to APPROVED. Safe to call when no seat was ever claimed.
func (s *bookingService) releaseSeat(ctx context.Context, booking *domain.Booking) error {
	if booking.SeatID == nil {
		return nil
	}
	if err := s.seatRepo.Release(ctx, *booking.SeatID); err != nil {
		return err
	}
	booking.SeatID = nil
	return s.syncPropertyStatus(ctx, booking.PropertyID)
}

// syncPropertyStatus marks the property RENTED when every seat is taken and
// APPROVED otherwise. The property row is locked before counting so the
// count reflects every committed claim when it is our turn.
func (s *bookingService) syncPropertyStatus(ctx context.Context, propertyID int32) error {
	if _, err := s.propRepo.GetByIDForUpdate(ctx, propertyID); err != nil {
		return err
	}
	available, err := s.seatRepo.CountAvailable(ctx, propertyID)
	if err != nil {
		return err
	}
	status := domain.PropertyStatusApproved
	if available == 0 {
		status = domain.PropertyStatusRented
	}
	return s.propRepo.UpdateStatus(ctx, propertyID, status)
}

func (s *bookingService) notifyDecision(ctx context.Context, booking *domain.Booking, decision string) {
	prop, _ := s.propRepo.GetByID(ctx, booking.PropertyID)
	tenant, _ := s.userRepo.GetByID(ctx, booking.TenantID)
	if prop == nil || tenant == nil {
		return
	}
	s.dispatcher.Notify(ctx, tenant.ID, domain.NotificationTypeBookingUpdate,
		fmt.Sprintf("Booking %s", decision),
		fmt.Sprintf("Your booking request for %s was %s", prop.Title, decision),
		fmt.Sprintf("/bookings/%d", booking.ID))
	_ = s.emailSvc.SendBookingDecisionNotification(ctx, tenant.Email, prop.Title, decision)
}

// counterpartyID picks the party on the other side of the booking from the
// actor. An acting tenant maps to the landlord and vice versa.
func counterpartyID(booking *domain.Booking, actorID int32) int32 {
	if actorID == booking.LandlordID {
		return booking.TenantID
	}
	return booking.LandlordID
}

func (s *bookingService) notifyCancellation(ctx context.Context, booking *domain.Booking, actorID int32, reason string) {
	prop, _ := s.propRepo.GetByID(ctx, booking.PropertyID)
	other, _ := s.userRepo.GetByID(ctx, counterpartyID(booking, actorID))
	if prop == nil || other == nil {
		return
	}
	s.dispatcher.Notify(ctx, other.ID, domain.NotificationTypeBookingUpdate,
		"Booking Cancelled",
		fmt.Sprintf("Booking for %s was cancelled: %s", prop.Title, reason),
		fmt.Sprintf("/bookings/%d", booking.ID))
	_ = s.emailSvc.SendBookingCancellationNotification(ctx, other.Email, prop.Title, reason)
}

func clampPage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
