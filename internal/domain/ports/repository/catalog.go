package repository

import (
	"context"

	"edu-entitlement-platform/internal/domain/model"
)

// CatalogRepository exposes the grade/semester/unit tree the ledger reads when
// redeeming teacher-scoped codes, plus the lessons under each unit that
// entitlement checks ultimately gate.
type CatalogRepository interface {
	SaveUnit(ctx context.Context, tx Tx, u *model.Unit) error
	UnitsByTeacher(ctx context.Context, tx Tx, teacherID string) ([]*model.Unit, error)
	ListUnits(ctx context.Context, tx Tx) ([]*model.Unit, error)
	SaveLesson(ctx context.Context, tx Tx, l *model.Lesson) error
	FindLesson(ctx context.Context, tx Tx, id string) (*model.Lesson, error)
}
