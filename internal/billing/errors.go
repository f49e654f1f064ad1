package billing

import "errors"

var (
	// ErrNotFound indicates the requested bill does not exist.
	ErrNotFound = errors.New("bill not found")
	// ErrItemNotFound indicates a bill line references a nonexistent item.
	ErrItemNotFound = errors.New("item not found")
	// ErrInsufficientStock indicates a line requests more than the item's stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidBill indicates the request failed validation before any transaction.
	ErrInvalidBill = errors.New("invalid bill")
	// ErrBillNumberConflict indicates two transactions generated the same bill
	// number. The store's unique index rejects the loser; the whole create may
	// be retried.
	ErrBillNumberConflict = errors.New("bill number conflict")
	// ErrCreateFailed indicates the header insert produced no id.
	ErrCreateFailed = errors.New("bill creation failed")
)
