package gormstore

import (
	"context"

	"github.com/Skotchmaster/shop_erp/internal/models"
)

func (r *GormRepo) GetListing(ctx context.Context, id uint) (*models.MarketplaceListing, error) {
	return first[models.MarketplaceListing](ctx, r.DB, "id = ?", id)
}

func (r *GormRepo) ListActiveListings(ctx context.Context) ([]models.MarketplaceListing, error) {
	return list[models.MarketplaceListing](ctx, r.DB, "is_active = ?", true)
}

func (r *GormRepo) ListVendorListings(ctx context.Context, vendorID uint) ([]models.MarketplaceListing, error) {
	return list[models.MarketplaceListing](ctx, r.DB, "vendor_id = ?", vendorID)
}

func (r *GormRepo) CreateListing(ctx context.Context, l *models.MarketplaceListing) error {
	l.ApplyDefaults(r.now())
	return translate(r.DB.WithContext(ctx).Create(l).Error)
}

func (r *GormRepo) UpdateListing(ctx context.Context, id uint, patch models.ListingPatch) (*models.MarketplaceListing, error) {
	return update(ctx, r.DB, id, func(row *models.MarketplaceListing) { patch.Apply(row) })
}

func (r *GormRepo) DeleteListing(ctx context.Context, id uint) error {
	return remove[models.MarketplaceListing](ctx, r.DB, id)
}
