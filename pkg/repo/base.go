package repo

import (
	"context"

	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/middleware/db"
	"gorm.io/gorm"
)

type IDOrUUIDTranslate interface {
	DBWithContext(ctx context.Context) *gorm.DB
	ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error
	CreateData(ctx context.Context, data any) error
	UpdateData(ctx context.Context, data any, where map[string]any, fields ...string) error
	UUID2ID(ctx context.Context, tableModel any, uuids ...uuid.UUID) map[uuid.UUID]int64
	ID2UUID(ctx context.Context, tableModel any, ids ...int64) map[int64]uuid.UUID
}

// baseDB resolves the datastore on every call so repos can be built
// before the database is initialised.
type baseDB struct{}

func NewBaseDB() IDOrUUIDTranslate {
	return &baseDB{}
}

func (b *baseDB) DBWithContext(ctx context.Context) *gorm.DB {
	return db.DB().DBWithContext(ctx)
}

func (b *baseDB) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return db.DB().ExecTx(ctx, fn)
}

func (b *baseDB) CreateData(ctx context.Context, data any) error {
	return db.DB().CreateData(ctx, data)
}

func (b *baseDB) UpdateData(ctx context.Context, data any, where map[string]any, fields ...string) error {
	return db.DB().UpdateData(ctx, data, where, fields...)
}

func (b *baseDB) UUID2ID(ctx context.Context, tableModel any, uuids ...uuid.UUID) map[uuid.UUID]int64 {
	return db.DB().UUID2ID(ctx, tableModel, uuids...)
}

func (b *baseDB) ID2UUID(ctx context.Context, tableModel any, ids ...int64) map[int64]uuid.UUID {
	return db.DB().ID2UUID(ctx, tableModel, ids...)
}
