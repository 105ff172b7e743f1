package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/logger"
	"roomstay-backend/internal/repository"
)

type seatService struct {
	txm      repository.TxManager
	seatRepo repository.SeatRepository
	propRepo repository.PropertyRepository
	auditSvc *AuditService
}

func NewSeatService(
	txm repository.TxManager,
	seatRepo repository.SeatRepository,
	propRepo repository.PropertyRepository,
	auditSvc *AuditService,
) SeatService {
	return &seatService{
		txm:      txm,
		seatRepo: seatRepo,
		propRepo: propRepo,
		auditSvc: auditSvc,
	}
}

func (s *seatService) EnsureSeats(ctx context.Context, propertyID int32) error {
	prop, err := s.propRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.seatRepo.EnsureSeats(ctx, propertyID, prop.BedCount)
}

func (s *seatService) ListSeats(ctx context.Context, propertyID int32) ([]domain.Seat, error) {
	if err := s.EnsureSeats(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.seatRepo.ListByProperty(ctx, propertyID)
}

func (s *seatService) CountAvailable(ctx context.Context, propertyID int32) (int32, error) {
	if err := s.EnsureSeats(ctx, propertyID); err != nil {
		return 0, err
	}
	return s.seatRepo.CountAvailable(ctx, propertyID)
}

func (s *seatService) ToggleSeat(ctx context.Context, ownerID, seatID int32, block bool) (*domain.Seat, error) {
	var seat *domain.Seat
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		// The seat row stays locked until commit, so a concurrent claim
		// cannot slip in between this read and the status write.
		var err error
		seat, err = s.seatRepo.GetByIDForUpdate(ctx, seatID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			if errors.Is(err, repository.ErrLockTimeout) {
				return ErrRetryLater
			}
			return err
		}
		prop, err := s.propRepo.GetByID(ctx, seat.PropertyID)
		if err != nil {
			return err
		}
		if prop.OwnerID != ownerID {
			return ErrNotAuthorized
		}
		if seat.Status == domain.SeatStatusOccupied {
			return fmt.Errorf("%w: seat %d is occupied", ErrInvalidStateTransition, seatID)
		}

		target := domain.SeatStatusAvailable
		if block {
			target = domain.SeatStatusBlocked
		}
		if seat.Status == target {
			return nil
		}
		if err := s.seatRepo.SetStatus(ctx, seatID, target); err != nil {
			return err
		}
		seat.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, &ownerID, domain.AuditSeatUpdate, "seat", seatID)
	logger.Info("seat toggled", "seat_id", seatID, "owner_id", ownerID, "status", seat.Status)
	return seat, nil
}
