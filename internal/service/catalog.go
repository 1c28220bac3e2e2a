package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/mykafka"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type CatalogRepo interface {
	store.Products
	store.Categories
}

// ListingSync keeps marketplace listings in step with their product.
type ListingSync interface {
	ProductChanged(ctx context.Context, prod *models.Product)
	ProductDeleted(ctx context.Context, prod *models.Product)
}

type CatalogService struct {
	Repo     CatalogRepo
	Listings ListingSync
	Events   mykafka.Publisher
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) ListProducts(ctx context.Context, userID uint) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, userID)
}

// GetOwnProduct loads a product and checks it belongs to userID.
func (s *CatalogService) GetOwnProduct(ctx context.Context, userID, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	if prod.UserID != userID {
		return nil, ErrForbidden
	}
	return prod, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, userID uint, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	var fe fieldErrors
	requireMoney(&fe, "price", req.Price)
	if err := fe.Err(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
		UserID:      userID,
	}
	if req.Quantity != nil {
		prod.Quantity = *req.Quantity
	}
	if req.IsListed != nil {
		prod.IsListed = *req.IsListed
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		l.Warn("create_product_failed", "sku", req.SKU, "error", err)
		return nil, fromStore(err)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicProducts, mykafka.NewEvent("product_created", userID, prod.ID, map[string]any{
		"name": prod.Name,
		"sku":  prod.SKU,
	}))
	return &prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, userID, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	var fe fieldErrors
	checkMoney(&fe, "price", req.Price)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if _, err := s.GetOwnProduct(ctx, userID, id); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	prod, err := s.Repo.UpdateProduct(ctx, id, models.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		IsListed:    req.IsListed,
	})
	if err != nil {
		return nil, fromStore(err)
	}
	if s.Listings != nil {
		s.Listings.ProductChanged(ctx, prod)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicProducts, mykafka.NewEvent("product_updated", userID, prod.ID, map[string]any{
		"name":     prod.Name,
		"quantity": prod.Quantity,
	}))
	return prod, nil
}

func (s *CatalogService) checkCategory(ctx context.Context, id uint) error {
	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalid("categoryId", "unknown category")
		}
		return err
	}
	return nil
}

// DeleteProduct removes the product and its marketplace listings.
func (s *CatalogService) DeleteProduct(ctx context.Context, userID, id uint) error {
	prod, err := s.GetOwnProduct(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return fromStore(err)
	}
	if s.Listings != nil {
		s.Listings.ProductDeleted(ctx, prod)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicProducts, mykafka.NewEvent("product_deleted", userID, id, nil))
	return nil
}
