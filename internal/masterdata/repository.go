package masterdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrAlreadyExists    = errors.New("record already exists")
	ErrCategoryInUse    = errors.New("category has items attached")
	ErrItemInUse        = errors.New("item is referenced by bills")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type Repository interface {
	GetCategory(ctx context.Context, id int64) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c Category) (int64, error)
	UpdateCategory(ctx context.Context, id int64, c Category) error
	DeleteCategory(ctx context.Context, id int64) error

	GetItem(ctx context.Context, id int64) (*Item, error)
	ListItems(ctx context.Context, req ListItemsRequest) ([]Item, error)
	CreateItem(ctx context.Context, it Item) (int64, error)
	UpdateItem(ctx context.Context, id int64, it Item) error
	DeleteItem(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) CreateCategory(ctx context.Context, c Category) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (name, description, created_at, updated_at)
VALUES ($1,$2,NOW(),NOW()) RETURNING id`, c.Name, c.Description).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateCategory(ctx context.Context, id int64, c Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name=$1, description=$2, updated_at=NOW() WHERE id = $3`,
		c.Name, c.Description, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *repository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrCategoryInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

const itemColumns = "id, name, description, price, stock_quantity, category_id, created_at, updated_at"

func (r *repository) GetItem(ctx context.Context, id int64) (*Item, error) {
	var it Item
	err := r.pool.QueryRow(ctx, "SELECT "+itemColumns+" FROM items WHERE id = $1", id).
		Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.StockQuantity,
			&it.CategoryID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *repository) ListItems(ctx context.Context, req ListItemsRequest) ([]Item, error) {
	query := "SELECT " + itemColumns + " FROM items WHERE 1=1"
	var args []interface{}
	argPos := 1

	if req.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+req.Search+"%")
		argPos++
	}
	if req.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argPos)
		args = append(args, *req.CategoryID)
		argPos++
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.StockQuantity,
			&it.CategoryID, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) CreateItem(ctx context.Context, it Item) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO items (name, description, price, stock_quantity, category_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NOW(),NOW()) RETURNING id`,
		it.Name, it.Description, it.Price, it.StockQuantity, it.CategoryID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return 0, ErrAlreadyExists
			case foreignKeyViolation:
				return 0, ErrCategoryNotFound
			}
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateItem(ctx context.Context, id int64, it Item) error {
	tag, err := r.pool.Exec(ctx, `UPDATE items SET name=$1, description=$2, price=$3,
stock_quantity=$4, category_id=$5, updated_at=NOW() WHERE id = $6`,
		it.Name, it.Description, it.Price, it.StockQuantity, it.CategoryID, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return ErrAlreadyExists
			case foreignKeyViolation:
				return ErrCategoryNotFound
			}
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrItemInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
