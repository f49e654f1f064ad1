package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository persists billing data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the operations available inside the bill-creation
// transaction.
type TxRepository interface {
	NextBillNumber(ctx context.Context, date time.Time) (string, error)
	InsertBill(ctx context.Context, billNo string, customerID int64, totalAmount float64) (int64, error)
	StockForUpdate(ctx context.Context, itemID int64) (int, error)
	UpdateStock(ctx context.Context, itemID int64, quantity int) error
	InsertBillItem(ctx context.Context, billID int64, item BillItem) error
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction. Stock
// rows are serialised by the FOR UPDATE lock in StockForUpdate, not by the
// isolation level.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("billing repository not initialised")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// NextBillNumber derives the next number for the date from the count of
// existing bills carrying the same date prefix. Two concurrent transactions
// can compute the same count; the unique index on bill_no turns that race
// into ErrBillNumberConflict at insert time rather than a silent duplicate.
func (r *txRepository) NextBillNumber(ctx context.Context, date time.Time) (string, error) {
	datePart := date.Format("20060102")
	var count int
	err := r.tx.QueryRow(ctx, `SELECT COUNT(*) FROM bills WHERE bill_no LIKE $1`, "BILL-"+datePart+"%").Scan(&count)
	if err != nil {
		return "", fmt.Errorf("count bills for %s: %w", datePart, err)
	}
	return fmt.Sprintf("BILL-%s-%04d", datePart, count+1), nil
}

func (r *txRepository) InsertBill(ctx context.Context, billNo string, customerID int64, totalAmount float64) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO bills (bill_no, customer_id, total_amount, created_at, updated_at)
VALUES ($1,$2,$3,NOW(),NOW()) RETURNING id`, billNo, customerID, totalAmount).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrBillNumberConflict, billNo)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrCreateFailed
		}
		return 0, err
	}
	return id, nil
}

func (r *txRepository) StockForUpdate(ctx context.Context, itemID int64) (int, error) {
	var stock int
	err := r.tx.QueryRow(ctx, `SELECT stock_quantity FROM items WHERE id = $1 FOR UPDATE`, itemID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrItemNotFound
		}
		return 0, err
	}
	return stock, nil
}

func (r *txRepository) UpdateStock(ctx context.Context, itemID int64, quantity int) error {
	_, err := r.tx.Exec(ctx, `UPDATE items SET stock_quantity = $1, updated_at = NOW() WHERE id = $2`, quantity, itemID)
	return err
}

func (r *txRepository) InsertBillItem(ctx context.Context, billID int64, item BillItem) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO bill_items (bill_id, item_id, quantity, unit_price, subtotal)
VALUES ($1,$2,$3,$4,$5)`, billID, item.ItemID, item.Quantity, item.UnitPrice, item.Subtotal)
	return err
}

// GetBill returns the bill header plus its full ordered line list.
func (r *Repository) GetBill(ctx context.Context, id int64) (*Bill, error) {
	var b Bill
	err := r.pool.QueryRow(ctx, `SELECT id, bill_no, customer_id, total_amount, created_at, updated_at
FROM bills WHERE id = $1`, id).Scan(&b.ID, &b.BillNo, &b.CustomerID, &b.TotalAmount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	items, err := r.billItems(ctx, id)
	if err != nil {
		return nil, err
	}
	b.BillItems = items
	return &b, nil
}

// ListByCustomer returns every bill for the customer, each with its items.
// Customer id 0 means no filter.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Bill, error) {
	query := `SELECT id, bill_no, customer_id, total_amount, created_at, updated_at FROM bills ORDER BY id`
	args := []any{}
	if customerID != 0 {
		query = `SELECT id, bill_no, customer_id, total_amount, created_at, updated_at FROM bills WHERE customer_id = $1 ORDER BY id`
		args = append(args, customerID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := []Bill{}
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.BillNo, &b.CustomerID, &b.TotalAmount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range bills {
		items, err := r.billItems(ctx, bills[i].ID)
		if err != nil {
			return nil, err
		}
		bills[i].BillItems = items
	}
	return bills, nil
}

func (r *Repository) billItems(ctx context.Context, billID int64) ([]BillItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, item_id, quantity, unit_price, subtotal
FROM bill_items WHERE bill_id = $1 ORDER BY id`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []BillItem{}
	for rows.Next() {
		var it BillItem
		if err := rows.Scan(&it.ID, &it.ItemID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// MonthlyStatistics aggregates totals per calendar month over the trailing
// 12 months, most recent first.
func (r *Repository) MonthlyStatistics(ctx context.Context) ([]MonthlyStat, error) {
	rows, err := r.pool.Query(ctx, `SELECT to_char(created_at, 'YYYY-MM') AS month,
       SUM(total_amount) AS total_amount,
       COUNT(*) AS bill_count
FROM bills
WHERE created_at >= NOW() - INTERVAL '12 months'
GROUP BY to_char(created_at, 'YYYY-MM')
ORDER BY month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []MonthlyStat{}
	for rows.Next() {
		var s MonthlyStat
		if err := rows.Scan(&s.Month, &s.TotalAmount, &s.BillCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// TotalBilling sums total_amount across all time.
func (r *Repository) TotalBilling(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM bills`).Scan(&total)
	return total, err
}

// MonthlyDetails returns the trailing-12-months bills grouped by month, each
// enriched with the customer name and per-line item names.
func (r *Repository) MonthlyDetails(ctx context.Context) (map[string][]BillDetail, error) {
	rows, err := r.pool.Query(ctx, `SELECT b.id, b.bill_no, b.customer_id, c.name, b.total_amount,
       b.created_at, b.updated_at, to_char(b.created_at, 'YYYY-MM') AS month
FROM bills b JOIN customers c ON b.customer_id = c.id
WHERE b.created_at >= NOW() - INTERVAL '12 months'
ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type monthly struct {
		month  string
		detail BillDetail
	}
	var ordered []monthly
	for rows.Next() {
		var m monthly
		if err := rows.Scan(&m.detail.ID, &m.detail.BillNo, &m.detail.CustomerID, &m.detail.CustomerName,
			&m.detail.TotalAmount, &m.detail.CreatedAt, &m.detail.UpdatedAt, &m.month); err != nil {
			return nil, err
		}
		ordered = append(ordered, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := map[string][]BillDetail{}
	for _, m := range ordered {
		items, err := r.detailItems(ctx, m.detail.ID)
		if err != nil {
			return nil, err
		}
		m.detail.BillItems = items
		result[m.month] = append(result[m.month], m.detail)
	}
	return result, nil
}

func (r *Repository) detailItems(ctx context.Context, billID int64) ([]BillDetailItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT bi.id, bi.item_id, i.name, bi.quantity, bi.unit_price, bi.subtotal
FROM bill_items bi JOIN items i ON bi.item_id = i.id
WHERE bi.bill_id = $1 ORDER BY bi.id`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []BillDetailItem{}
	for rows.Next() {
		var it BillDetailItem
		if err := rows.Scan(&it.ID, &it.ItemID, &it.ItemName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// BillContent assembles the invoice payload for the mail collaborator.
func (r *Repository) BillContent(ctx context.Context, billID int64) (*BillContent, error) {
	var content BillContent
	err := r.pool.QueryRow(ctx, `SELECT b.id, b.bill_no, c.name, c.email, b.total_amount, b.created_at
FROM bills b JOIN customers c ON b.customer_id = c.id
WHERE b.id = $1`, billID).Scan(&content.BillID, &content.BillNo, &content.CustomerName,
		&content.CustomerEmail, &content.TotalAmount, &content.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT i.name, bi.quantity, bi.unit_price, bi.subtotal
FROM bill_items bi JOIN items i ON bi.item_id = i.id
WHERE bi.bill_id = $1 ORDER BY bi.id`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it BillContentItem
		if err := rows.Scan(&it.ItemName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		content.BillItems = append(content.BillItems, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &content, nil
}
