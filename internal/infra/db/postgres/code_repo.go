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

var _ repository.PrepaidCodeRepository = (*codeRepo)(nil)

type codeRepo struct {
	pool *pgxpool.Pool
}

func NewCodeRepo(pool *pgxpool.Pool) repository.PrepaidCodeRepository {
	return &codeRepo{pool: pool}
}

func (r *codeRepo) Save(ctx context.Context, tx repository.Tx, code *model.PrepaidCode) error {
	const q = `
INSERT INTO prepaid_codes (code, teacher_id, duration_days, max_uses, times_used, used_by_user_ids, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (code) DO UPDATE SET
  times_used = EXCLUDED.times_used,
  used_by_user_ids = EXCLUDED.used_by_user_ids;`

	usedBy := code.UsedByUserIDs
	if usedBy == nil {
		usedBy = []string{} // column is NOT NULL; nil would encode as NULL
	}
	_, err := execSQL(ctx, r.pool, tx, q,
		code.Code, code.TeacherID, code.DurationDays, code.MaxUses, code.TimesUsed, usedBy, code.CreatedAt,
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

func (r *codeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.PrepaidCode, error) {
	const q = `
SELECT code, teacher_id, duration_days, max_uses, times_used, used_by_user_ids, created_at
  FROM prepaid_codes
 WHERE code=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	return scanCode(row)
}

func (r *codeRepo) Exists(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM prepaid_codes WHERE code=$1);`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *codeRepo) List(ctx context.Context, tx repository.Tx) ([]*model.PrepaidCode, error) {
	const q = `
SELECT code, teacher_id, duration_days, max_uses, times_used, used_by_user_ids, created_at
  FROM prepaid_codes
 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.PrepaidCode
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *codeRepo) Delete(ctx context.Context, tx repository.Tx, code string) error {
	const q = `DELETE FROM prepaid_codes WHERE code=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, code)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCode(row pgx.Row) (*model.PrepaidCode, error) {
	var c model.PrepaidCode
	err := row.Scan(
		&c.Code, &c.TeacherID, &c.DurationDays, &c.MaxUses, &c.TimesUsed, &c.UsedByUserIDs, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}
