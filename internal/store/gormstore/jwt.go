package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/store"
)

func (r *GormRepo) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return translate(r.DB.WithContext(ctx).Create(t).Error)
}

func (r *GormRepo) GetRefreshToken(ctx context.Context, jti string) (*models.RefreshToken, error) {
	return first[models.RefreshToken](ctx, r.DB, "jti = ?", jti)
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, jti string) error {
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("jti = ?", jti).
		Update("revoked", true)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked = ? AND expires_at >= ?", oldJTI, false, r.now().Unix()).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return tx.Create(next).Error
	}))
}
