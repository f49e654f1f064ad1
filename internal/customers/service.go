package customers

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a customer with a generated account number and status
// pending. Number generation and insert share one transaction.
func (s *Service) Register(ctx context.Context, req RegisterCustomerRequest) (*Customer, error) {
	customer := Customer{
		Name:    req.Name,
		Gender:  req.Gender,
		DOB:     req.DOB,
		Address: req.Address,
		NIC:     req.NIC,
		Email:   req.Email,
		Phone:   req.Phone,
		Status:  StatusPending,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		accountNumber, err := repo.NextAccountNumber(ctx)
		if err != nil {
			return fmt.Errorf("generate account number: %w", err)
		}
		customer.AccountNumber = accountNumber

		id, err := repo.Create(ctx, customer)
		if err != nil {
			return err
		}
		customer.ID = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register customer: %w", err)
	}
	return s.repo.Get(ctx, customer.ID)
}

// Update replaces every mutable field; the account number is untouched.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	err := s.repo.Update(ctx, id, Customer{
		Name:    req.Name,
		Gender:  req.Gender,
		DOB:     req.DOB,
		Address: req.Address,
		NIC:     req.NIC,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Approve transitions the customer to approved. Only the status changes.
func (s *Service) Approve(ctx context.Context, id int64) (*Customer, error) {
	return s.setStatus(ctx, id, StatusApproved)
}

// Reject transitions the customer to rejected. Only the status changes.
func (s *Service) Reject(ctx context.Context, id int64) (*Customer, error) {
	return s.setStatus(ctx, id, StatusRejected)
}

func (s *Service) setStatus(ctx context.Context, id int64, status Status) (*Customer, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
