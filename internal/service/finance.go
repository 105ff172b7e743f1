package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/logger"
	"roomstay-backend/internal/repository"
	"roomstay-backend/internal/utils"
)

type financeService struct {
	txm        repository.TxManager
	earnRepo   repository.EarningRepository
	payoutRepo repository.PayoutRepository
	payRepo    repository.PaymentRepository
	userRepo   repository.UserRepository
	emailSvc   EmailService
	dispatcher *Dispatcher
	auditSvc   *AuditService
}

func NewFinanceService(
	txm repository.TxManager,
	earnRepo repository.EarningRepository,
	payoutRepo repository.PayoutRepository,
	payRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	dispatcher *Dispatcher,
	auditSvc *AuditService,
) FinanceService {
	return &financeService{
		txm:        txm,
		earnRepo:   earnRepo,
		payoutRepo: payoutRepo,
		payRepo:    payRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
		dispatcher: dispatcher,
		auditSvc:   auditSvc,
	}
}

func (s *financeService) RequestPayout(ctx context.Context, ownerID int32) (*domain.PayoutRequest, error) {
	method, err := s.payoutRepo.GetPreferredMethod(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPayoutMethodNotVerified
		}
		return nil, err
	}
	if method.VerificationStatus != domain.PayoutMethodVerified {
		return nil, ErrPayoutMethodNotVerified
	}

	var request *domain.PayoutRequest
	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		earnings, err := s.earnRepo.LockAvailableByUser(ctx, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrLockTimeout) {
				return ErrRetryLater
			}
			return err
		}
		if len(earnings) == 0 {
			return ErrNoAvailableEarnings
		}

		var totalCents int64
		earningIDs := make([]int32, 0, len(earnings))
		for _, e := range earnings {
			totalCents += e.NetAmountCents
			earningIDs = append(earningIDs, e.ID)
		}

		request = &domain.PayoutRequest{
			UserID:         ownerID,
			PayoutMethodID: method.ID,
			AmountCents:    totalCents,
			Status:         domain.PayoutStatusPending,
			IdempotencyKey: uuid.New().String(),
		}
		if err := s.payoutRepo.CreateRequest(ctx, request); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return ErrDuplicateSubmission
			}
			return err
		}
		return s.earnRepo.AssignToPayoutRequest(ctx, earningIDs, request.ID)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, &ownerID, domain.AuditPayoutRequest, "payout_request", request.ID)
	s.dispatcher.Notify(ctx, ownerID, domain.NotificationTypePayout,
		"Payout Requested",
		fmt.Sprintf("Your payout request for $%.2f was submitted", float64(request.AmountCents)/100),
		fmt.Sprintf("/payouts/%d", request.ID))
	if owner, err := s.userRepo.GetByID(ctx, ownerID); err == nil {
		_ = s.emailSvc.SendPayoutRequestedNotification(ctx, owner.Email, request.AmountCents)
	}

	logger.Info("payout requested", "payout_request_id", request.ID, "owner_id", ownerID, "amount_cents", request.AmountCents)
	return request, nil
}

func (s *financeService) ProcessPayoutRequest(ctx context.Context, adminID, requestID int32, approve bool, note string) (*domain.PayoutRequest, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var request *domain.PayoutRequest
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.payoutRepo.GetRequestByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != domain.PayoutStatusPending {
			return fmt.Errorf("%w: payout request is already %s", ErrInvalidStateTransition, request.Status)
		}

		target := domain.PayoutStatusRejected
		if approve {
			target = domain.PayoutStatusPaid
		}
		if err := s.payoutRepo.UpdateRequestStatusCAS(ctx, request.ID, request.Version, target, note); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return ErrConcurrentModification
			}
			return err
		}

		if approve {
			err = s.earnRepo.ResolvePayoutRequest(ctx, request.ID, domain.EarningStatusPaid, false)
		} else {
			// Rejected earnings go back to AVAILABLE, unlinked, so a later
			// request can bundle them again.
			err = s.earnRepo.ResolvePayoutRequest(ctx, request.ID, domain.EarningStatusAvailable, true)
		}
		if err != nil {
			return err
		}

		request.Status = target
		request.AdminNote = note
		request.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, &adminID, domain.AuditPayoutProcess, "payout_request", request.ID)
	s.dispatcher.Notify(ctx, request.UserID, domain.NotificationTypePayout,
		fmt.Sprintf("Payout %s", request.Status),
		fmt.Sprintf("Your payout request for $%.2f was %s", float64(request.AmountCents)/100, request.Status),
		fmt.Sprintf("/payouts/%d", request.ID))
	if owner, err := s.userRepo.GetByID(ctx, request.UserID); err == nil {
		_ = s.emailSvc.SendPayoutProcessedNotification(ctx, owner.Email, request.AmountCents, string(request.Status), note)
	}

	logger.Info("payout processed", "payout_request_id", request.ID, "status", request.Status, "admin_id", adminID)
	return request, nil
}

func (s *financeService) ListPayoutRequests(ctx context.Context, adminID int32, status string, page, pageSize int32) ([]domain.PayoutRequest, int32, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}
	page, pageSize = clampPage(page, pageSize)
	return s.payoutRepo.ListRequests(ctx, domain.PayoutStatus(status), page, pageSize)
}

func (s *financeService) GetEarningsSummary(ctx context.Context, ownerID int32) (*domain.EarningsSummary, error) {
	return s.earnRepo.Summary(ctx, ownerID)
}

func (s *financeService) ListEarnings(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Earning, int32, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.earnRepo.ListByUser(ctx, ownerID, page, pageSize)
}

func (s *financeService) ListPayments(ctx context.Context, tenantID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.payRepo.ListByUser(ctx, tenantID, page, pageSize)
}

func (s *financeService) AddPayoutMethod(ctx context.Context, ownerID int32, m *domain.PayoutMethod) (*domain.PayoutMethod, error) {
	if m.BankName == "" || m.AccountNumber == "" || m.AccountHolderName == "" {
		return nil, fmt.Errorf("bank name, account number and account holder name are required")
	}
	if m.Currency == "" {
		m.Currency = "USD"
	}
	m.UserID = ownerID
	m.VerificationStatus = domain.PayoutMethodPending
	if err := s.payoutRepo.CreateMethod(ctx, m); err != nil {
		return nil, err
	}
	masked := *m
	masked.AccountNumber = utils.MaskAccountNumber(m.AccountNumber)
	return &masked, nil
}

func (s *financeService) ListPayoutMethods(ctx context.Context, ownerID int32) ([]domain.PayoutMethod, error) {
	methods, err := s.payoutRepo.ListMethods(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		methods[i].AccountNumber = utils.MaskAccountNumber(methods[i].AccountNumber)
	}
	return methods, nil
}

func (s *financeService) DeletePayoutMethod(ctx context.Context, ownerID, methodID int32) error {
	method, err := s.payoutRepo.GetMethodByID(ctx, methodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if method.UserID != ownerID {
		return ErrNotAuthorized
	}
	return s.payoutRepo.DeleteMethod(ctx, methodID)
}

func (s *financeService) requireAdmin(ctx context.Context, userID int32) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotAuthorized
		}
		return err
	}
	if user.Role != domain.UserRoleAdmin {
		return ErrNotAuthorized
	}
	return nil
}
