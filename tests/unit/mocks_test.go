package unit

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"roomstay-backend/internal/domain"
)

// passthroughTxManager runs the function against the caller's context, no
// transaction involved.
type passthroughTxManager struct{}

func (passthroughTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockSeatRepo
type MockSeatRepo struct {
	mock.Mock
}

func (m *MockSeatRepo) EnsureSeats(ctx context.Context, propertyID, bedCount int32) error {
	args := m.Called(ctx, propertyID, bedCount)
	return args.Error(0)
}
func (m *MockSeatRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}
func (m *MockSeatRepo) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Seat, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]domain.Seat), args.Error(1)
}
func (m *MockSeatRepo) ClaimAvailable(ctx context.Context, propertyID int32) (*domain.Seat, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}
func (m *MockSeatRepo) Release(ctx context.Context, seatID int32) error {
	args := m.Called(ctx, seatID)
	return args.Error(0)
}
func (m *MockSeatRepo) SetStatus(ctx context.Context, seatID int32, status domain.SeatStatus) error {
	args := m.Called(ctx, seatID, status)
	return args.Error(0)
}
func (m *MockSeatRepo) CountAvailable(ctx context.Context, propertyID int32) (int32, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(int32), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookingRepo) ExistsOverlapping(ctx context.Context, propertyID int32, statuses []domain.BookingStatus, start, end time.Time) (bool, error) {
	args := m.Called(ctx, propertyID, statuses, start, end)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) ListByTenant(ctx context.Context, tenantID int32, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, tenantID, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByLandlord(ctx context.Context, landlordID int32, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, landlordID, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

// MockEarningRepo
type MockEarningRepo struct {
	mock.Mock
}

func (m *MockEarningRepo) CreateIfAbsent(ctx context.Context, e *domain.Earning) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}
func (m *MockEarningRepo) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Earning, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}
func (m *MockEarningRepo) UpdateStatusByBooking(ctx context.Context, bookingID int32, from, to domain.EarningStatus) error {
	args := m.Called(ctx, bookingID, from, to)
	return args.Error(0)
}
func (m *MockEarningRepo) LockAvailableByUser(ctx context.Context, userID int32) ([]domain.Earning, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Earning), args.Error(1)
}
func (m *MockEarningRepo) AssignToPayoutRequest(ctx context.Context, earningIDs []int32, payoutRequestID int32) error {
	args := m.Called(ctx, earningIDs, payoutRequestID)
	return args.Error(0)
}
func (m *MockEarningRepo) ResolvePayoutRequest(ctx context.Context, payoutRequestID int32, to domain.EarningStatus, unlink bool) error {
	args := m.Called(ctx, payoutRequestID, to, unlink)
	return args.Error(0)
}
func (m *MockEarningRepo) Summary(ctx context.Context, userID int32) (*domain.EarningsSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EarningsSummary), args.Error(1)
}
func (m *MockEarningRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Earning, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Earning), args.Get(1).(int32), args.Error(2)
}

// MockPayoutRepo
type MockPayoutRepo struct {
	mock.Mock
}

func (m *MockPayoutRepo) CreateRequest(ctx context.Context, pr *domain.PayoutRequest) error {
	args := m.Called(ctx, pr)
	return args.Error(0)
}
func (m *MockPayoutRepo) GetRequestByID(ctx context.Context, id int32) (*domain.PayoutRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayoutRequest), args.Error(1)
}
func (m *MockPayoutRepo) UpdateRequestStatusCAS(ctx context.Context, id int32, version int64, status domain.PayoutStatus, note string) error {
	args := m.Called(ctx, id, version, status, note)
	return args.Error(0)
}
func (m *MockPayoutRepo) ListRequests(ctx context.Context, status domain.PayoutStatus, page, pageSize int32) ([]domain.PayoutRequest, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.PayoutRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockPayoutRepo) CreateMethod(ctx context.Context, method *domain.PayoutMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}
func (m *MockPayoutRepo) GetMethodByID(ctx context.Context, id int32) (*domain.PayoutMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayoutMethod), args.Error(1)
}
func (m *MockPayoutRepo) GetPreferredMethod(ctx context.Context, userID int32) (*domain.PayoutMethod, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayoutMethod), args.Error(1)
}
func (m *MockPayoutRepo) ListMethods(ctx context.Context, userID int32) ([]domain.PayoutMethod, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.PayoutMethod), args.Error(1)
}
func (m *MockPayoutRepo) DeleteMethod(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) CreateIfAbsent(ctx context.Context, p *domain.Payment) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}
func (m *MockPaymentRepo) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) MarkRefunded(ctx context.Context, bookingID int32) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}
func (m *MockPaymentRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) UpdateStatus(ctx context.Context, id int32, status domain.PropertyStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Append(ctx context.Context, entry *domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error {
	args := m.Called(ctx, ownerEmail, tenantName, propertyTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingDecisionNotification(ctx context.Context, tenantEmail, propertyTitle, decision string) error {
	args := m.Called(ctx, tenantEmail, propertyTitle, decision)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancellationNotification(ctx context.Context, email, propertyTitle, reason string) error {
	args := m.Called(ctx, email, propertyTitle, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendCheckOutNotification(ctx context.Context, ownerEmail, propertyTitle string, netCents int64) error {
	args := m.Called(ctx, ownerEmail, propertyTitle, netCents)
	return args.Error(0)
}
func (m *MockEmailService) SendStayReminderNotification(ctx context.Context, tenantEmail, propertyTitle, reminder string) error {
	args := m.Called(ctx, tenantEmail, propertyTitle, reminder)
	return args.Error(0)
}
func (m *MockEmailService) SendPayoutRequestedNotification(ctx context.Context, ownerEmail string, amountCents int64) error {
	args := m.Called(ctx, ownerEmail, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendPayoutProcessedNotification(ctx context.Context, ownerEmail string, amountCents int64, status, note string) error {
	args := m.Called(ctx, ownerEmail, amountCents, status, note)
	return args.Error(0)
}
