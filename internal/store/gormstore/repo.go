// Package gormstore implements store.Store on gorm for postgres, mysql and
// sqlite.
package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/store"
)

type GormRepo struct {
	DB  *gorm.DB
	now func() time.Time
}

var _ store.Store = (*GormRepo)(nil)

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm's translated dialect errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrConflict
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return store.ErrConstraint
	default:
		return err
	}
}

func first[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func list[T any](ctx context.Context, db *gorm.DB, query string, args ...any) ([]T, error) {
	items := make([]T, 0)
	q := db.WithContext(ctx).Order("id ASC")
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func remove[T any](ctx context.Context, db *gorm.DB, id uint) error {
	var row T
	res := db.WithContext(ctx).Delete(&row, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// update applies a patch to the row with id inside one transaction, holding
// a row lock between the read and the write. SQLite has no FOR UPDATE and
// serializes writers on its own.
func update[T any](ctx context.Context, db *gorm.DB, id uint, apply func(*T)) (*T, error) {
	var row T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&row, id).Error; err != nil {
			return err
		}
		apply(&row)
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}
