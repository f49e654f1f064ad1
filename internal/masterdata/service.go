package masterdata

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

func (s *Service) CreateCategory(ctx context.Context, req SaveCategoryRequest) (*Category, error) {
	id, err := s.repo.CreateCategory(ctx, Category{Name: req.Name, Description: req.Description})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, req SaveCategoryRequest) (*Category, error) {
	err := s.repo.UpdateCategory(ctx, id, Category{Name: req.Name, Description: req.Description})
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) CreateItem(ctx context.Context, req SaveItemRequest) (*Item, error) {
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	id, err := s.repo.CreateItem(ctx, Item{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return s.repo.GetItem(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, id int64, req SaveItemRequest) (*Item, error) {
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	err := s.repo.UpdateItem(ctx, id, Item{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.repo.GetItem(ctx, id)
}

func (s *Service) GetItem(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, req ListItemsRequest) ([]Item, error) {
	return s.repo.ListItems(ctx, req)
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.DeleteItem(ctx, id)
}
