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

// Ensure implementation satisfies the interface.
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) repository.SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, user_id, teacher_id, item_id, item_name, item_type, plan, start_date, end_date, status
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  teacher_id=$3, item_id=$4, item_name=$5, item_type=$6, plan=$7, start_date=$8, end_date=$9, status=$10;`

	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.UserID, s.TeacherID, s.ItemID, s.ItemName, s.ItemType, s.Plan, s.StartDate, s.EndDate, s.Status,
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

func (r *subscriptionRepo) FindByUserAndItem(ctx context.Context, tx repository.Tx, userID, itemID string) (*model.Subscription, error) {
	const q = `
SELECT id, user_id, teacher_id, item_id, item_name, item_type, plan, start_date, end_date, status
  FROM subscriptions
 WHERE user_id=$1 AND item_id=$2
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, itemID)
	if err != nil {
		return nil, err
	}
	return scanSub(row)
}

func (r *subscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	const q = `
SELECT id, user_id, teacher_id, item_id, item_name, item_type, plan, start_date, end_date, status
  FROM subscriptions
 WHERE user_id=$1
 ORDER BY end_date ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSub(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *subscriptionRepo) CountActive(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM subscriptions WHERE status='Active';`
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

func scanSub(row pgx.Row) (*model.Subscription, error) {
	var s model.Subscription
	err := row.Scan(
		&s.ID, &s.UserID, &s.TeacherID, &s.ItemID, &s.ItemName, &s.ItemType, &s.Plan, &s.StartDate, &s.EndDate, &s.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}
