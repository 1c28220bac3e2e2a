package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/shop_erp/internal/es"
	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/mykafka"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	"github.com/Skotchmaster/shop_erp/internal/util"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type MarketplaceRepo interface {
	store.Listings
	store.Products
}

type ListingIndex interface {
	IndexListing(ctx context.Context, doc es.ListingDoc) error
	DeleteListing(ctx context.Context, id uint) error
	DeleteProductListings(ctx context.Context, productID uint) error
	SearchListings(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type MarketplaceService struct {
	Repo   MarketplaceRepo
	Index  ListingIndex
	Events mykafka.Publisher
}

func (s *MarketplaceService) ListActive(ctx context.Context) ([]models.MarketplaceListing, error) {
	return s.Repo.ListActiveListings(ctx)
}

func (s *MarketplaceService) ListVendor(ctx context.Context, vendorID uint) ([]models.MarketplaceListing, error) {
	return s.Repo.ListVendorListings(ctx, vendorID)
}

func (s *MarketplaceService) CreateListing(ctx context.Context, vendorID uint, req transport.CreateListingRequest) (*models.MarketplaceListing, error) {
	var fe fieldErrors
	requireMoney(&fe, "price", req.Price)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	prod, err := s.Repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid("productId", "unknown product")
		}
		return nil, err
	}
	if prod.UserID != vendorID {
		return nil, invalid("productId", "must reference one of your products")
	}

	listing := models.MarketplaceListing{
		ProductID: req.ProductID,
		VendorID:  vendorID,
		Price:     *req.Price,
		IsActive:  true,
	}
	if req.MinOrderQuantity != nil {
		listing.MinOrderQuantity = *req.MinOrderQuantity
	}
	if req.IsActive != nil {
		listing.IsActive = *req.IsActive
	}

	if err := s.Repo.CreateListing(ctx, &listing); err != nil {
		return nil, fromStore(err)
	}

	s.index(ctx, &listing, prod)
	mykafka.Emit(ctx, s.Events, mykafka.TopicMarketplace, mykafka.NewEvent("listing_created", vendorID, listing.ID, map[string]any{
		"productId": listing.ProductID,
		"price":     listing.Price.StringFixed(2),
	}))
	return &listing, nil
}

func (s *MarketplaceService) ownListing(ctx context.Context, vendorID, id uint) (*models.MarketplaceListing, error) {
	listing, err := s.Repo.GetListing(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	if listing.VendorID != vendorID {
		return nil, ErrForbidden
	}
	return listing, nil
}

func (s *MarketplaceService) UpdateListing(ctx context.Context, vendorID, id uint, req transport.PatchListingRequest) (*models.MarketplaceListing, error) {
	var fe fieldErrors
	checkMoney(&fe, "price", req.Price)
	if err := fe.Err(); err != nil {
		return nil, err
	}
	if _, err := s.ownListing(ctx, vendorID, id); err != nil {
		return nil, err
	}

	listing, err := s.Repo.UpdateListing(ctx, id, models.ListingPatch{
		Price:            req.Price,
		MinOrderQuantity: req.MinOrderQuantity,
		IsActive:         req.IsActive,
	})
	if err != nil {
		return nil, fromStore(err)
	}

	if prod, err := s.Repo.GetProduct(ctx, listing.ProductID); err == nil {
		s.index(ctx, listing, prod)
	}
	mykafka.Emit(ctx, s.Events, mykafka.TopicMarketplace, mykafka.NewEvent("listing_updated", vendorID, listing.ID, map[string]any{
		"isActive": listing.IsActive,
	}))
	return listing, nil
}

func (s *MarketplaceService) DeleteListing(ctx context.Context, vendorID, id uint) error {
	if _, err := s.ownListing(ctx, vendorID, id); err != nil {
		return err
	}
	if err := s.Repo.DeleteListing(ctx, id); err != nil {
		return fromStore(err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteListing(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("unindex_listing_failed", "listing_id", id, "error", err)
		}
	}
	mykafka.Emit(ctx, s.Events, mykafka.TopicMarketplace, mykafka.NewEvent("listing_deleted", vendorID, id, nil))
	return nil
}

// ProductChanged refreshes the search documents of prod's listings.
func (s *MarketplaceService) ProductChanged(ctx context.Context, prod *models.Product) {
	if s.Index == nil {
		return
	}
	listings, err := s.Repo.ListVendorListings(ctx, prod.UserID)
	if err != nil {
		logging.FromContext(ctx).Warn("reindex_product_failed", "product_id", prod.ID, "error", err)
		return
	}
	for i := range listings {
		if listings[i].ProductID == prod.ID {
			s.index(ctx, &listings[i], prod)
		}
	}
}

// ProductDeleted drops the search documents of prod's listings. The store
// removes the listings themselves together with the product.
func (s *MarketplaceService) ProductDeleted(ctx context.Context, prod *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.DeleteProductListings(ctx, prod.ID); err != nil {
		logging.FromContext(ctx).Warn("unindex_product_failed", "product_id", prod.ID, "error", err)
	}
}

func (s *MarketplaceService) index(ctx context.Context, listing *models.MarketplaceListing, prod *models.Product) {
	if s.Index == nil {
		return
	}
	doc := es.ListingDoc{
		ListingID: listing.ID,
		ProductID: prod.ID,
		VendorID:  listing.VendorID,
		Name:      prod.Name,
		SKU:       prod.SKU,
		Price:     listing.Price.StringFixed(2),
		IsActive:  listing.IsActive,
	}
	if prod.Description != nil {
		doc.Description = *prod.Description
	}
	if err := s.Index.IndexListing(ctx, doc); err != nil {
		logging.FromContext(ctx).Warn("index_listing_failed", "listing_id", listing.ID, "error", err)
	}
}

// Search finds active listings whose product matches query. The search index
// is used when configured; otherwise, or when it fails, the store is scanned.
func (s *MarketplaceService) Search(ctx context.Context, query string, page, size int) (*transport.ListingSearchResult, error) {
	l := logging.FromContext(ctx).With("svc", "marketplace.search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("q", "is required")
	}
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	var (
		total int64
		items []models.MarketplaceListing
		err   error
	)
	if s.Index != nil {
		total, items, err = s.searchIndex(ctx, query, offset, limit)
		if err != nil {
			l.Warn("search_index_failed", "reason", "falling back to store scan", "error", err)
		}
	}
	if s.Index == nil || err != nil {
		total, items, err = s.searchStore(ctx, query, offset, limit)
		if err != nil {
			return nil, err
		}
	}

	return &transport.ListingSearchResult{
		Data: items,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}, nil
}

func (s *MarketplaceService) searchIndex(ctx context.Context, query string, offset, limit int) (int64, []models.MarketplaceListing, error) {
	total, ids, err := s.Index.SearchListings(ctx, query, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	items := make([]models.MarketplaceListing, 0, len(ids))
	for _, id := range ids {
		listing, err := s.Repo.GetListing(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, nil, err
		}
		if listing.IsActive {
			items = append(items, *listing)
		}
	}
	return total, items, nil
}

func (s *MarketplaceService) searchStore(ctx context.Context, query string, offset, limit int) (int64, []models.MarketplaceListing, error) {
	active, err := s.Repo.ListActiveListings(ctx)
	if err != nil {
		return 0, nil, err
	}

	needle := strings.ToLower(query)
	matched := make([]models.MarketplaceListing, 0)
	for _, listing := range active {
		prod, err := s.Repo.GetProduct(ctx, listing.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, nil, err
		}
		if productMatches(prod, needle) {
			matched = append(matched, listing)
		}
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return total, []models.MarketplaceListing{}, nil
	}
	end := min(offset+limit, len(matched))
	return total, matched[offset:end], nil
}

func productMatches(p *models.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.SKU), needle) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle)
}

// Reindex pushes every active listing to the search index. It returns the
// number of listings indexed.
func (s *MarketplaceService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	active, err := s.Repo.ListActiveListings(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for i := range active {
		prod, err := s.Repo.GetProduct(ctx, active[i].ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return n, err
		}
		s.index(ctx, &active[i], prod)
		n++
	}
	return n, nil
}
