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

var _ repository.CatalogRepository = (*catalogRepo)(nil)

type catalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) repository.CatalogRepository {
	return &catalogRepo{pool: pool}
}

func (r *catalogRepo) SaveUnit(ctx context.Context, tx repository.Tx, u *model.Unit) error {
	const q = `
INSERT INTO units (id, teacher_id, subject_name, grade, semester)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET teacher_id=$2, subject_name=$3, grade=$4, semester=$5;`

	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.TeacherID, u.SubjectName, u.Grade, u.Semester)
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

func (r *catalogRepo) UnitsByTeacher(ctx context.Context, tx repository.Tx, teacherID string) ([]*model.Unit, error) {
	const q = `
SELECT id, teacher_id, subject_name, grade, semester
  FROM units
 WHERE teacher_id=$1
 ORDER BY subject_name ASC;`
	return r.queryUnits(ctx, tx, q, teacherID)
}

func (r *catalogRepo) ListUnits(ctx context.Context, tx repository.Tx) ([]*model.Unit, error) {
	const q = `
SELECT id, teacher_id, subject_name, grade, semester
  FROM units
 ORDER BY grade, semester, subject_name;`
	return r.queryUnits(ctx, tx, q)
}

func (r *catalogRepo) queryUnits(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Unit, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *catalogRepo) SaveLesson(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	const q = `
INSERT INTO lessons (id, unit_id, title, body)
VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO UPDATE SET unit_id=$2, title=$3, body=$4;`

	_, err := execSQL(ctx, r.pool, tx, q, l.ID, l.UnitID, l.Title, l.Body)
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

func (r *catalogRepo) FindLesson(ctx context.Context, tx repository.Tx, id string) (*model.Lesson, error) {
	const q = `
SELECT id, unit_id, title, body
  FROM lessons
 WHERE id=$1;`

	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	var l model.Lesson
	if err := row.Scan(&l.ID, &l.UnitID, &l.Title, &l.Body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &l, nil
}

func scanUnit(row pgx.Row) (*model.Unit, error) {
	var u model.Unit
	if err := row.Scan(&u.ID, &u.TeacherID, &u.SubjectName, &u.Grade, &u.Semester); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &u, nil
}
