package cashiers

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

// Register creates a cashier with status pending.
func (s *Service) Register(ctx context.Context, req RegisterCashierRequest) (*Cashier, error) {
	id, err := s.repo.Create(ctx, Cashier{
		Name:    req.Name,
		Gender:  req.Gender,
		DOB:     req.DOB,
		Address: req.Address,
		NIC:     req.NIC,
		Email:   req.Email,
		Phone:   req.Phone,
		Status:  StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("register cashier: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCashierRequest) (*Cashier, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	err := s.repo.Update(ctx, id, Cashier{
		Name:    req.Name,
		Gender:  req.Gender,
		DOB:     req.DOB,
		Address: req.Address,
		NIC:     req.NIC,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("update cashier: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Approve(ctx context.Context, id int64) (*Cashier, error) {
	return s.setStatus(ctx, id, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, id int64) (*Cashier, error) {
	return s.setStatus(ctx, id, StatusRejected)
}

func (s *Service) setStatus(ctx context.Context, id int64, status Status) (*Cashier, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Cashier, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListCashiersRequest) ([]Cashier, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
