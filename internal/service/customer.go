package service

import (
	"context"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/mykafka"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/transport"
)

type CustomerService struct {
	Repo   store.Customers
	Events mykafka.Publisher
}

func (s *CustomerService) ListCustomers(ctx context.Context, userID uint) ([]models.Customer, error) {
	return s.Repo.ListCustomers(ctx, userID)
}

func (s *CustomerService) CreateCustomer(ctx context.Context, userID uint, req transport.CreateCustomerRequest) (*models.Customer, error) {
	cust := models.Customer{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		UserID:   userID,
		IsActive: true,
	}
	if req.IsActive != nil {
		cust.IsActive = *req.IsActive
	}

	if err := s.Repo.CreateCustomer(ctx, &cust); err != nil {
		return nil, fromStore(err)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicCustomers, mykafka.NewEvent("customer_created", userID, cust.ID, map[string]any{
		"name": cust.Name,
	}))
	return &cust, nil
}

func (s *CustomerService) ownCustomer(ctx context.Context, userID, id uint) (*models.Customer, error) {
	cust, err := s.Repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	if cust.UserID != userID {
		return nil, ErrForbidden
	}
	return cust, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, userID, id uint, req transport.PatchCustomerRequest) (*models.Customer, error) {
	if _, err := s.ownCustomer(ctx, userID, id); err != nil {
		return nil, err
	}

	cust, err := s.Repo.UpdateCustomer(ctx, id, models.CustomerPatch{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, fromStore(err)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicCustomers, mykafka.NewEvent("customer_updated", userID, cust.ID, nil))
	return cust, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, userID, id uint) error {
	if _, err := s.ownCustomer(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.DeleteCustomer(ctx, id); err != nil {
		return fromStore(err)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicCustomers, mykafka.NewEvent("customer_deleted", userID, id, nil))
	return nil
}
