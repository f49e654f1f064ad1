package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pahana-edu/billing/internal/platform/db"
)

var (
	ErrNotFound      = errors.New("customer not found")
	ErrAlreadyExists = errors.New("customer already exists")
)

const uniqueViolation = "23505"

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, error)
	Create(ctx context.Context, customer Customer) (int64, error)
	Update(ctx context.Context, id int64, customer Customer) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	NextAccountNumber(ctx context.Context) (string, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		repoTx := &repository{db: tx, pool: r.pool}
		return fn(ctx, repoTx)
	})
}

const customerColumns = "id, name, gender, dob, address, nic, email, phone, account_number, status, created_at, updated_at"

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Gender, &c.DOB, &c.Address, &c.NIC, &c.Email,
		&c.Phone, &c.AccountNumber, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id))
}

func (r *repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers WHERE 1=1"
	var args []interface{}
	argPos := 1

	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR nic ILIKE $%d OR account_number ILIKE $%d)", argPos, argPos, argPos, argPos)
		args = append(args, pattern)
		argPos++
	}
	if req.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *req.Status)
		argPos++
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Gender, &c.DOB, &c.Address, &c.NIC, &c.Email,
			&c.Phone, &c.AccountNumber, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *repository) Create(ctx context.Context, customer Customer) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO customers (name, gender, dob, address, nic, email, phone, account_number, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW()) RETURNING id`,
		customer.Name, customer.Gender, customer.DOB, customer.Address, customer.NIC,
		customer.Email, customer.Phone, customer.AccountNumber, customer.Status).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, customer Customer) error {
	tag, err := r.db.Exec(ctx, `UPDATE customers SET name=$1, gender=$2, dob=$3, address=$4, nic=$5,
email=$6, phone=$7, updated_at=NOW() WHERE id = $8`,
		customer.Name, customer.Gender, customer.DOB, customer.Address, customer.NIC,
		customer.Email, customer.Phone, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE customers SET status=$1, updated_at=NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NextAccountNumber suggests the next ACC number from the current row count.
// Issued inside the registration transaction; the unique constraint on
// account_number backstops concurrent registrations.
func (r *repository) NextAccountNumber(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("ACC%03d", count+1), nil
}
