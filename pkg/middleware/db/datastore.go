package db

import (
	"context"
	"reflect"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"gorm.io/gorm"
)

type txKey struct{}

type Datastore struct {
	db *gorm.DB
}

func NewDatastore(gdb *gorm.DB) *Datastore {
	return &Datastore{db: gdb}
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

// DBWithContext returns the transaction bound to ctx when ExecTx opened one.
func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (d *Datastore) CreateData(ctx context.Context, data any) error {
	if err := d.DBWithContext(ctx).Create(data).Error; err != nil {
		logger.Errorf(ctx, "create data err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

// UpdateData updates only the named fields of the rows matching where.
func (d *Datastore) UpdateData(ctx context.Context, data any, where map[string]any, fields ...string) error {
	q := d.DBWithContext(ctx).Model(data).Where(where)
	if len(fields) > 0 {
		q = q.Select(fields)
	}
	if err := q.Updates(data).Error; err != nil {
		logger.Errorf(ctx, "update data err: %+v", err)
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

func (d *Datastore) UUID2ID(ctx context.Context, tableModel any, uuids ...uuid.UUID) map[uuid.UUID]int64 {
	res := make(map[uuid.UUID]int64, len(uuids))
	if len(uuids) == 0 {
		return res
	}
	type row struct {
		ID   int64
		UUID uuid.UUID
	}
	rows := make([]*row, 0, len(uuids))
	if err := d.DBWithContext(ctx).Model(newOf(tableModel)).
		Select("id, uuid").
		Where("uuid IN ?", uuids).
		Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "UUID2ID err: %+v", err)
		return res
	}
	for _, r := range rows {
		res[r.UUID] = r.ID
	}
	return res
}

func (d *Datastore) ID2UUID(ctx context.Context, tableModel any, ids ...int64) map[int64]uuid.UUID {
	res := make(map[int64]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return res
	}
	type row struct {
		ID   int64
		UUID uuid.UUID
	}
	rows := make([]*row, 0, len(ids))
	if err := d.DBWithContext(ctx).Model(newOf(tableModel)).
		Select("id, uuid").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "ID2UUID err: %+v", err)
		return res
	}
	for _, r := range rows {
		res[r.ID] = r.UUID
	}
	return res
}

// newOf keeps the caller's instance untouched when gorm fills the model.
func newOf(m any) any {
	t := reflect.TypeOf(m)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}
