package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"edu-entitlement-platform/internal/domain"
	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/repository"
)

var _ repository.SubscriptionRequestRepository = (*requestRepo)(nil)

type requestRepo struct {
	pool *pgxpool.Pool
}

func NewRequestRepo(pool *pgxpool.Pool) repository.SubscriptionRequestRepository {
	return &requestRepo{pool: pool}
}

func (r *requestRepo) Save(ctx context.Context, tx repository.Tx, req *model.SubscriptionRequest) error {
	const q = `
INSERT INTO subscription_requests (
  id, user_id, user_name, plan, payment_from_number, status, created_at, subject_name, unit_id, item_id
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET status=$6;`

	_, err := execSQL(ctx, r.pool, tx, q,
		req.ID, req.UserID, req.UserName, req.Plan, req.PaymentFromNumber, req.Status, req.CreatedAt,
		req.SubjectName, req.UnitID, req.ItemID,
	)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *requestRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionRequest, error) {
	const q = `
SELECT id, user_id, user_name, plan, payment_from_number, status, created_at, subject_name, unit_id, item_id
  FROM subscription_requests
 WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanRequest(row)
}

func (r *requestRepo) List(ctx context.Context, tx repository.Tx, status model.RequestStatus) ([]*model.SubscriptionRequest, error) {
	const q = `
SELECT id, user_id, user_name, plan, payment_from_number, status, created_at, subject_name, unit_id, item_id
  FROM subscription_requests
 WHERE ($1 = '' OR status = $1)
 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, string(status))
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.SubscriptionRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *requestRepo) CountPending(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM subscription_requests WHERE status='Pending';`
	row, err := pickRow(ctx, r.pool, repository.NoTX, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func scanRequest(row pgx.Row) (*model.SubscriptionRequest, error) {
	var req model.SubscriptionRequest
	err := row.Scan(
		&req.ID, &req.UserID, &req.UserName, &req.Plan, &req.PaymentFromNumber, &req.Status, &req.CreatedAt,
		&req.SubjectName, &req.UnitID, &req.ItemID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &req, nil
}
