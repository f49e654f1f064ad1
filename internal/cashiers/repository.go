package cashiers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("cashier not found")
	ErrAlreadyExists = errors.New("cashier already exists")
)

const uniqueViolation = "23505"

type Repository interface {
	Get(ctx context.Context, id int64) (*Cashier, error)
	List(ctx context.Context, req ListCashiersRequest) ([]Cashier, error)
	Create(ctx context.Context, cashier Cashier) (int64, error)
	Update(ctx context.Context, id int64, cashier Cashier) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const cashierColumns = "id, name, gender, dob, address, nic, email, phone, status, created_at, updated_at"

func (r *repository) Get(ctx context.Context, id int64) (*Cashier, error) {
	var c Cashier
	err := r.pool.QueryRow(ctx, "SELECT "+cashierColumns+" FROM cashiers WHERE id = $1", id).
		Scan(&c.ID, &c.Name, &c.Gender, &c.DOB, &c.Address, &c.NIC, &c.Email, &c.Phone,
			&c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, req ListCashiersRequest) ([]Cashier, error) {
	query := "SELECT " + cashierColumns + " FROM cashiers WHERE 1=1"
	var args []interface{}
	argPos := 1

	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR nic ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, pattern)
		argPos++
	}
	if req.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *req.Status)
		argPos++
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cashiers := []Cashier{}
	for rows.Next() {
		var c Cashier
		if err := rows.Scan(&c.ID, &c.Name, &c.Gender, &c.DOB, &c.Address, &c.NIC, &c.Email,
			&c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cashiers = append(cashiers, c)
	}
	return cashiers, rows.Err()
}

func (r *repository) Create(ctx context.Context, cashier Cashier) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO cashiers (name, gender, dob, address, nic, email, phone, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW()) RETURNING id`,
		cashier.Name, cashier.Gender, cashier.DOB, cashier.Address, cashier.NIC,
		cashier.Email, cashier.Phone, cashier.Status).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, cashier Cashier) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cashiers SET name=$1, gender=$2, dob=$3, address=$4, nic=$5,
email=$6, phone=$7, updated_at=NOW() WHERE id = $8`,
		cashier.Name, cashier.Gender, cashier.DOB, cashier.Address, cashier.NIC,
		cashier.Email, cashier.Phone, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cashiers SET status=$1, updated_at=NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cashiers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
