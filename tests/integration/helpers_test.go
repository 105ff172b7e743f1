package integration

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"roomstay-backend/internal/config"
	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository/postgres"
	"roomstay-backend/internal/service"

	_ "github.com/lib/pq"
)

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "../../config/config.test.yaml", "path to config file")
}

func prepareDB(t *testing.T) *sql.DB {
	if !flag.Parsed() {
		flag.Parse()
	}

	// Handle running from the repo root vs. the package dir.
	finalPath := configPath
	if _, err := os.Stat(finalPath); os.IsNotExist(err) {
		altPath := filepath.Join("..", "..", configPath)
		if _, err := os.Stat(altPath); err == nil {
			finalPath = altPath
		}
	}

	cfg, err := config.Load(finalPath)
	if err != nil {
		t.Fatalf("failed to load config from %s: %v", finalPath, err)
	}

	var db *sql.DB

	// Retry: the database container might still be starting up.
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err == nil {
			err = db.Ping()
			if err == nil {
				return db
			}
		}
		time.Sleep(2 * time.Second)
	}
	t.Fatalf("failed to connect to database: %v", err)
	return nil
}

func seedUser(t *testing.T, db *sql.DB, role domain.UserRole) int32 {
	t.Helper()
	var id int32
	email := fmt.Sprintf("%s-%d@t.com", role, time.Now().UnixNano())
	err := db.QueryRow(
		`INSERT INTO users (email, password_hash, name, role, created_on) VALUES ($1, 'h', $2, $3, NOW()) RETURNING id`,
		email, string(role), role).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

func seedProperty(t *testing.T, db *sql.DB, ownerID, bedCount int32, priceCents int64) int32 {
	t.Helper()
	var id int32
	title := fmt.Sprintf("House-%d", time.Now().UnixNano())
	err := db.QueryRow(
		`INSERT INTO properties (owner_id, title, bed_count, price_per_night_cents, status, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, 'APPROVED', NOW(), NOW()) RETURNING id`,
		ownerID, title, bedCount, priceCents).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}
	return id
}

func seedVerifiedPayoutMethod(t *testing.T, db *sql.DB, ownerID int32) int32 {
	t.Helper()
	var id int32
	err := db.QueryRow(
		`INSERT INTO payout_methods (user_id, bank_name, account_number, account_holder_name, currency, is_default, verification_status, created_on)
		 VALUES ($1, 'First National', '1234567890', 'Owner', 'USD', TRUE, 'VERIFIED', NOW()) RETURNING id`,
		ownerID).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed payout method: %v", err)
	}
	return id
}

func seedCheckedOutBooking(t *testing.T, db *sql.DB, propertyID, tenantID, landlordID int32) int32 {
	t.Helper()
	var id int32
	err := db.QueryRow(
		`INSERT INTO bookings (property_id, tenant_id, landlord_id, start_date, end_date, status,
		 total_price_cents, commission_cents, net_amount_cents, notes, created_on, updated_on)
		 VALUES ($1, $2, $3, NOW() - INTERVAL '5 days', NOW() - INTERVAL '2 days', 'CHECKED_OUT',
		 10000, 500, 9500, '', NOW(), NOW()) RETURNING id`,
		propertyID, tenantID, landlordID).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return id
}

func seedAvailableEarning(t *testing.T, db *sql.DB, ownerID, bookingID int32, netCents int64) int32 {
	t.Helper()
	var id int32
	err := db.QueryRow(
		`INSERT INTO earnings (user_id, booking_id, amount_cents, commission_cents, net_amount_cents, status, created_on, updated_on)
		 VALUES ($1, $2, $3, 0, $3, 'AVAILABLE', NOW(), NOW()) RETURNING id`,
		ownerID, bookingID, netCents).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed earning: %v", err)
	}
	return id
}

type testServices struct {
	store   *postgres.Store
	booking service.BookingService
	finance service.FinanceService
	seats   service.SeatService
}

func newTestServices(db *sql.DB) *testServices {
	store := postgres.NewStore(db)
	// An empty SendGrid key makes the email service log and skip.
	emailSvc := service.NewEmailService(config.SendGridConfig{})
	dispatcher := service.NewDispatcher(store.NotificationRepository)
	auditSvc := service.NewAuditService(store.AuditRepository)

	return &testServices{
		store: store,
		booking: service.NewBookingService(
			store,
			store.BookingRepository,
			store.SeatRepository,
			store.PropertyRepository,
			store.EarningRepository,
			store.PaymentRepository,
			store.UserRepository,
			emailSvc,
			dispatcher,
			auditSvc,
			0.05,
		),
		finance: service.NewFinanceService(
			store,
			store.EarningRepository,
			store.PayoutRepository,
			store.PaymentRepository,
			store.UserRepository,
			emailSvc,
			dispatcher,
			auditSvc,
		),
		seats: service.NewSeatService(
			store,
			store.SeatRepository,
			store.PropertyRepository,
			auditSvc,
		),
	}
}
