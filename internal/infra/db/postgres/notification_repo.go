package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"edu-entitlement-platform/internal/domain"
	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/repository"
)

var _ repository.NotificationRepository = (*notificationRepo)(nil)

type notificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepo{pool: pool}
}

func (r *notificationRepo) Save(ctx context.Context, tx repository.Tx, n *model.Notification) error {
	const q = `
INSERT INTO notifications (id, user_id, title, message, type, item_id, is_read, created_at, link)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET is_read=$7;`

	_, err := execSQL(ctx, r.pool, tx, q,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.ItemID, n.IsRead, n.CreatedAt, n.Link,
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

func (r *notificationRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Notification, error) {
	const q = `
SELECT id, user_id, title, message, type, item_id, is_read, created_at, link
  FROM notifications
 WHERE user_id=$1
 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.ItemID, &n.IsRead, &n.CreatedAt, &n.Link); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *notificationRepo) ExistsForItem(ctx context.Context, tx repository.Tx, userID, itemID, kind string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM notifications WHERE user_id=$1 AND item_id=$2 AND type=$3);`
	row, err := pickRow(ctx, r.pool, tx, q, userID, itemID, kind)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE notifications SET is_read=TRUE WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM notifications WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
