package masterdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memRepository struct {
	nextCategoryID int64
	nextItemID     int64
	categories     map[int64]Category
	items          map[int64]Item
}

func newMemRepository() *memRepository {
	return &memRepository{
		nextCategoryID: 1,
		nextItemID:     1,
		categories:     map[int64]Category{},
		items:          map[int64]Item{},
	}
}

func (r *memRepository) GetCategory(_ context.Context, id int64) (*Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return &c, nil
}

func (r *memRepository) ListCategories(context.Context) ([]Category, error) {
	list := []Category{}
	for id := int64(1); id < r.nextCategoryID; id++ {
		if c, ok := r.categories[id]; ok {
			list = append(list, c)
		}
	}
	return list, nil
}

func (r *memRepository) CreateCategory(_ context.Context, c Category) (int64, error) {
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return 0, ErrAlreadyExists
		}
	}
	c.ID = r.nextCategoryID
	r.nextCategoryID++
	r.categories[c.ID] = c
	return c.ID, nil
}

func (r *memRepository) UpdateCategory(_ context.Context, id int64, c Category) error {
	existing, ok := r.categories[id]
	if !ok {
		return ErrCategoryNotFound
	}
	existing.Name = c.Name
	existing.Description = c.Description
	r.categories[id] = existing
	return nil
}

func (r *memRepository) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	for _, it := range r.items {
		if it.CategoryID != nil && *it.CategoryID == id {
			return ErrCategoryInUse
		}
	}
	delete(r.categories, id)
	return nil
}

func (r *memRepository) GetItem(_ context.Context, id int64) (*Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return &it, nil
}

func (r *memRepository) ListItems(_ context.Context, req ListItemsRequest) ([]Item, error) {
	list := []Item{}
	for id := int64(1); id < r.nextItemID; id++ {
		it, ok := r.items[id]
		if !ok {
			continue
		}
		if req.CategoryID != nil && (it.CategoryID == nil || *it.CategoryID != *req.CategoryID) {
			continue
		}
		list = append(list, it)
	}
	return list, nil
}

func (r *memRepository) CreateItem(_ context.Context, it Item) (int64, error) {
	it.ID = r.nextItemID
	r.nextItemID++
	r.items[it.ID] = it
	return it.ID, nil
}

func (r *memRepository) UpdateItem(_ context.Context, id int64, it Item) error {
	existing, ok := r.items[id]
	if !ok {
		return ErrItemNotFound
	}
	existing.Name = it.Name
	existing.Description = it.Description
	existing.Price = it.Price
	existing.StockQuantity = it.StockQuantity
	existing.CategoryID = it.CategoryID
	r.items[id] = existing
	return nil
}

func (r *memRepository) DeleteItem(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func TestCreateItemUnknownCategory(t *testing.T) {
	svc := NewService(newMemRepository())

	missing := int64(99)
	_, err := svc.CreateItem(context.Background(), SaveItemRequest{
		Name:          "Notebook",
		Price:         450,
		StockQuantity: 20,
		CategoryID:    &missing,
	})
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateItemWithCategory(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo)

	category, err := svc.CreateCategory(context.Background(), SaveCategoryRequest{Name: "Stationery"})
	require.NoError(t, err)

	item, err := svc.CreateItem(context.Background(), SaveItemRequest{
		Name:          "Notebook",
		Price:         450,
		StockQuantity: 20,
		CategoryID:    &category.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Notebook", item.Name)
	require.NotNil(t, item.CategoryID)
	require.Equal(t, category.ID, *item.CategoryID)
}

func TestCreateItemWithoutCategory(t *testing.T) {
	svc := NewService(newMemRepository())

	item, err := svc.CreateItem(context.Background(), SaveItemRequest{
		Name:          "Gift Voucher",
		Price:         1000,
		StockQuantity: 5,
	})
	require.NoError(t, err)
	require.Nil(t, item.CategoryID)
}

func TestDuplicateCategoryName(t *testing.T) {
	svc := NewService(newMemRepository())

	_, err := svc.CreateCategory(context.Background(), SaveCategoryRequest{Name: "Stationery"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), SaveCategoryRequest{Name: "Stationery"})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestDeleteCategoryInUse(t *testing.T) {
	svc := NewService(newMemRepository())

	category, err := svc.CreateCategory(context.Background(), SaveCategoryRequest{Name: "Stationery"})
	require.NoError(t, err)

	item, err := svc.CreateItem(context.Background(), SaveItemRequest{
		Name:          "Notebook",
		Price:         450,
		StockQuantity: 20,
		CategoryID:    &category.ID,
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteCategory(context.Background(), category.ID), ErrCategoryInUse)

	require.NoError(t, svc.DeleteItem(context.Background(), item.ID))
	require.NoError(t, svc.DeleteCategory(context.Background(), category.ID))
}

func TestListItemsByCategory(t *testing.T) {
	svc := NewService(newMemRepository())

	stationery, err := svc.CreateCategory(context.Background(), SaveCategoryRequest{Name: "Stationery"})
	require.NoError(t, err)
	books, err := svc.CreateCategory(context.Background(), SaveCategoryRequest{Name: "Books"})
	require.NoError(t, err)

	_, err = svc.CreateItem(context.Background(), SaveItemRequest{Name: "Notebook", Price: 450, StockQuantity: 20, CategoryID: &stationery.ID})
	require.NoError(t, err)
	_, err = svc.CreateItem(context.Background(), SaveItemRequest{Name: "Physics Text", Price: 4500, StockQuantity: 8, CategoryID: &books.ID})
	require.NoError(t, err)

	list, err := svc.ListItems(context.Background(), ListItemsRequest{CategoryID: &books.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Physics Text", list[0].Name)
}

func TestUpdateItemReassignsCategory(t *testing.T) {
	svc := NewService(newMemRepository())

	stationery, err := svc.CreateCategory(context.Background(), SaveCategoryRequest{Name: "Stationery"})
	require.NoError(t, err)

	item, err := svc.CreateItem(context.Background(), SaveItemRequest{Name: "Notebook", Price: 450, StockQuantity: 20})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(context.Background(), item.ID, SaveItemRequest{
		Name:          "Notebook A5",
		Price:         500,
		StockQuantity: 18,
		CategoryID:    &stationery.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Notebook A5", updated.Name)
	require.Equal(t, 500.0, updated.Price)
	require.NotNil(t, updated.CategoryID)
}
