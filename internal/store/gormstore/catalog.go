package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_erp/internal/models"
)

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](ctx, r.DB, "id = ?", id)
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](ctx, r.DB, "username = ?", username)
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	u.ApplyDefaults()
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return first[models.Product](ctx, r.DB, "id = ?", id)
}

func (r *GormRepo) ListProducts(ctx context.Context, userID uint) ([]models.Product, error) {
	return list[models.Product](ctx, r.DB, "user_id = ?", userID)
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	p.ApplyDefaults(r.now())
	return translate(r.DB.WithContext(ctx).Create(p).Error)
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) (*models.Product, error) {
	return update(ctx, r.DB, id, func(row *models.Product) { patch.Apply(row) })
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := remove[models.Product](ctx, tx, id); err != nil {
			return err
		}
		return translate(tx.Where("product_id = ?", id).Delete(&models.MarketplaceListing{}).Error)
	})
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return first[models.Category](ctx, r.DB, "id = ?", id)
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return list[models.Category](ctx, r.DB, "")
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error)
}
