package billing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

// amountTolerance absorbs float rounding in the supplied line arithmetic.
const amountTolerance = 0.01

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetBill(ctx context.Context, id int64) (*Bill, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Bill, error)
	MonthlyStatistics(ctx context.Context) ([]MonthlyStat, error)
	TotalBilling(ctx context.Context) (float64, error)
	MonthlyDetails(ctx context.Context) (map[string][]BillDetail, error)
	BillContent(ctx context.Context, billID int64) (*BillContent, error)
}

// Service coordinates billing operations.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateBill runs the bill-creation transaction: number generation, header
// insert, per-line stock check-and-decrement under a row lock, and line
// inserts, all atomically. On any failure the store is left untouched.
func (s *Service) CreateBill(ctx context.Context, req CreateBillRequest) (int64, error) {
	if err := validateCreate(req); err != nil {
		return 0, err
	}

	var billID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		billNo, err := tx.NextBillNumber(ctx, s.now())
		if err != nil {
			return fmt.Errorf("generate bill number: %w", err)
		}

		billID, err = tx.InsertBill(ctx, billNo, req.CustomerID, req.TotalAmount)
		if err != nil {
			return fmt.Errorf("insert bill: %w", err)
		}

		// Lines are applied in caller order. A duplicate item id re-reads the
		// stock it just decremented, so cumulative decrements stay correct
		// within the transaction.
		for _, line := range req.BillItems {
			stock, err := tx.StockForUpdate(ctx, line.ItemID)
			if err != nil {
				if errors.Is(err, ErrItemNotFound) {
					return fmt.Errorf("%w: item ID %d", ErrItemNotFound, line.ItemID)
				}
				return fmt.Errorf("lock stock for item %d: %w", line.ItemID, err)
			}
			if stock < line.Quantity {
				return fmt.Errorf("%w for item ID %d", ErrInsufficientStock, line.ItemID)
			}
			if err := tx.UpdateStock(ctx, line.ItemID, stock-line.Quantity); err != nil {
				return fmt.Errorf("update stock for item %d: %w", line.ItemID, err)
			}
			if err := tx.InsertBillItem(ctx, billID, BillItem{
				ItemID:    line.ItemID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  line.Subtotal,
			}); err != nil {
				return fmt.Errorf("insert bill item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return billID, nil
}

func validateCreate(req CreateBillRequest) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id required", ErrInvalidBill)
	}
	if len(req.BillItems) == 0 {
		return fmt.Errorf("%w: bill items cannot be empty", ErrInvalidBill)
	}
	var sum float64
	for _, line := range req.BillItems {
		if line.ItemID <= 0 || line.Quantity <= 0 || line.UnitPrice < 0 {
			return fmt.Errorf("%w: itemId, quantity, and unitPrice must be valid", ErrInvalidBill)
		}
		if math.Abs(line.Subtotal-float64(line.Quantity)*line.UnitPrice) > amountTolerance {
			return fmt.Errorf("%w: subtotal mismatch for item ID %d", ErrInvalidBill, line.ItemID)
		}
		sum += line.Subtotal
	}
	if math.Abs(sum-req.TotalAmount) > amountTolerance {
		return fmt.Errorf("%w: total amount %.2f does not match line subtotals %.2f", ErrInvalidBill, req.TotalAmount, sum)
	}
	return nil
}

// GetBill fetches a bill with its items.
func (s *Service) GetBill(ctx context.Context, id int64) (*Bill, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid bill id", ErrInvalidBill)
	}
	return s.repo.GetBill(ctx, id)
}

// ListByCustomer fetches all bills for a customer; id 0 means every bill.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Bill, error) {
	if customerID < 0 {
		return nil, fmt.Errorf("%w: invalid customer id", ErrInvalidBill)
	}
	return s.repo.ListByCustomer(ctx, customerID)
}

// Statistics fetches the trailing-12-months aggregates and the grand total.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		monthly, err := s.repo.MonthlyStatistics(ctx)
		if err != nil {
			return err
		}
		stats.MonthlyStats = monthly
		return nil
	})
	g.Go(func() error {
		total, err := s.repo.TotalBilling(ctx)
		if err != nil {
			return err
		}
		stats.TotalBilling = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if stats.MonthlyStats == nil {
		stats.MonthlyStats = []MonthlyStat{}
	}
	return &stats, nil
}

// MonthlyDetails fetches bills of the trailing 12 months grouped by month.
func (s *Service) MonthlyDetails(ctx context.Context) (map[string][]BillDetail, error) {
	return s.repo.MonthlyDetails(ctx)
}

// Content assembles the invoice payload handed to the mail collaborator.
func (s *Service) Content(ctx context.Context, billID int64) (*BillContent, error) {
	if billID <= 0 {
		return nil, fmt.Errorf("%w: invalid bill id", ErrInvalidBill)
	}
	return s.repo.BillContent(ctx, billID)
}
