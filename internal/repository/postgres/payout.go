package postgres

import (
	"context"
	"database/sql"
	"time"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/repository"
)

type payoutRepository struct {
	db *sql.DB
}

func NewPayoutRepository(db *sql.DB) repository.PayoutRepository {
	return &payoutRepository{db: db}
}

const payoutColumns = `id, user_id, payout_method_id, amount_cents, status, COALESCE(admin_note, ''), idempotency_key, version, processed_at, created_on, updated_on`

func scanPayoutRequest(row interface{ Scan(...any) error }, pr *domain.PayoutRequest) error {
	return row.Scan(&pr.ID, &pr.UserID, &pr.PayoutMethodID, &pr.AmountCents, &pr.Status,
		&pr.AdminNote, &pr.IdempotencyKey, &pr.Version, &pr.ProcessedAt, &pr.CreatedOn, &pr.UpdatedOn)
}

func (r *payoutRepository) CreateRequest(ctx context.Context, pr *domain.PayoutRequest) error {
	query := `INSERT INTO payout_requests (user_id, payout_method_id, amount_cents, status, idempotency_key, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, 0, $6, $7) RETURNING id, version, created_on, updated_on`
	now := time.Now()
	return mapError(conn(ctx, r.db).QueryRowContext(ctx, query,
		pr.UserID, pr.PayoutMethodID, pr.AmountCents, pr.Status, pr.IdempotencyKey, now, now,
	).Scan(&pr.ID, &pr.Version, &pr.CreatedOn, &pr.UpdatedOn))
}

func (r *payoutRepository) GetRequestByID(ctx context.Context, id int32) (*domain.PayoutRequest, error) {
	pr := &domain.PayoutRequest{}
	query := `SELECT ` + payoutColumns + ` FROM payout_requests WHERE id = $1`
	if err := scanPayoutRequest(conn(ctx, r.db).QueryRowContext(ctx, query, id), pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// UpdateRequestStatusCAS is the optimistic half of payout processing: the
// UPDATE only matches while the version is unchanged, so a request processed
// by a concurrent admin yields zero rows and ErrVersionConflict instead of a
// silent double-apply.
func (r *payoutRepository) UpdateRequestStatusCAS(ctx context.Context, id int32, version int64, status domain.PayoutStatus, note string) error {
	query := `UPDATE payout_requests
	          SET status = $1, admin_note = $2, processed_at = $3, version = version + 1, updated_on = $3
	          WHERE id = $4 AND version = $5`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, status, note, time.Now(), id, version)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrVersionConflict
	}
	return nil
}

func (r *payoutRepository) ListRequests(ctx context.Context, status domain.PayoutStatus, page, pageSize int32) ([]domain.PayoutRequest, int32, error) {
	offset := (page - 1) * pageSize

	where := ``
	args := []any{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var count int32
	if err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM payout_requests`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + payoutColumns + ` FROM payout_requests` + where
	if status != "" {
		query += ` ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	}
	args = append(args, pageSize, offset)

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []domain.PayoutRequest
	for rows.Next() {
		var pr domain.PayoutRequest
		if err := scanPayoutRequest(rows, &pr); err != nil {
			return nil, 0, err
		}
		requests = append(requests, pr)
	}
	return requests, count, rows.Err()
}

func (r *payoutRepository) CreateMethod(ctx context.Context, m *domain.PayoutMethod) error {
	// The owner's first method becomes the default.
	query := `INSERT INTO payout_methods (user_id, bank_name, account_number, account_holder_name, routing_number, currency, is_default, verification_status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6,
	                  NOT EXISTS (SELECT 1 FROM payout_methods WHERE user_id = $1),
	                  $7, $8)
	          RETURNING id, is_default`
	return mapError(conn(ctx, r.db).QueryRowContext(ctx, query,
		m.UserID, m.BankName, m.AccountNumber, m.AccountHolderName, m.RoutingNumber, m.Currency,
		m.VerificationStatus, time.Now(),
	).Scan(&m.ID, &m.IsDefault))
}

func (r *payoutRepository) GetMethodByID(ctx context.Context, id int32) (*domain.PayoutMethod, error) {
	m := &domain.PayoutMethod{}
	query := `SELECT id, user_id, bank_name, account_number, account_holder_name, COALESCE(routing_number, ''), currency, is_default, verification_status, created_on
	          FROM payout_methods WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.UserID, &m.BankName, &m.AccountNumber, &m.AccountHolderName,
		&m.RoutingNumber, &m.Currency, &m.IsDefault, &m.VerificationStatus, &m.CreatedOn)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *payoutRepository) GetPreferredMethod(ctx context.Context, userID int32) (*domain.PayoutMethod, error) {
	m := &domain.PayoutMethod{}
	query := `SELECT id, user_id, bank_name, account_number, account_holder_name, COALESCE(routing_number, ''), currency, is_default, verification_status, created_on
	          FROM payout_methods WHERE user_id = $1 ORDER BY is_default DESC, id ASC LIMIT 1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(
		&m.ID, &m.UserID, &m.BankName, &m.AccountNumber, &m.AccountHolderName,
		&m.RoutingNumber, &m.Currency, &m.IsDefault, &m.VerificationStatus, &m.CreatedOn)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *payoutRepository) ListMethods(ctx context.Context, userID int32) ([]domain.PayoutMethod, error) {
	query := `SELECT id, user_id, bank_name, account_number, account_holder_name, COALESCE(routing_number, ''), currency, is_default, verification_status, created_on
	          FROM payout_methods WHERE user_id = $1 ORDER BY id ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []domain.PayoutMethod
	for rows.Next() {
		var m domain.PayoutMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.BankName, &m.AccountNumber, &m.AccountHolderName,
			&m.RoutingNumber, &m.Currency, &m.IsDefault, &m.VerificationStatus, &m.CreatedOn); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func (r *payoutRepository) DeleteMethod(ctx context.Context, id int32) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM payout_methods WHERE id = $1`, id)
	return mapError(err)
}
