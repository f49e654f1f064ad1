package billing

import "time"

// Bill is an invoice header with its owned line items. Bills are immutable
// once created; there is no update or delete path.
type Bill struct {
	ID          int64      `json:"id"`
	BillNo      string     `json:"billNo"`
	CustomerID  int64      `json:"customerId"`
	TotalAmount float64    `json:"totalAmount"`
	BillItems   []BillItem `json:"billItems"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BillItem is one purchased line within a bill. Lines are created atomically
// with their parent bill and never independently.
type BillItem struct {
	ID        int64   `json:"id"`
	ItemID    int64   `json:"itemId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// MonthlyStat aggregates billing for one calendar month.
type MonthlyStat struct {
	Month       string  `json:"month"`
	TotalAmount float64 `json:"totalAmount"`
	BillCount   int     `json:"billCount"`
}

// Statistics bundles the trailing-12-months aggregates with the grand total.
type Statistics struct {
	MonthlyStats []MonthlyStat `json:"monthlyStats"`
	TotalBilling float64       `json:"totalBilling"`
}

// BillDetail is a bill joined with customer and item names, used by the
// monthly details report.
type BillDetail struct {
	ID           int64            `json:"id"`
	BillNo       string           `json:"billNo"`
	CustomerID   int64            `json:"customerId"`
	CustomerName string           `json:"customerName"`
	TotalAmount  float64          `json:"totalAmount"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	BillItems    []BillDetailItem `json:"billItems"`
}

// BillDetailItem is a bill line enriched with the item name.
type BillDetailItem struct {
	ID        int64   `json:"id"`
	ItemID    int64   `json:"itemId"`
	ItemName  string  `json:"itemName"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// BillContent is the payload handed to the mail collaborator.
type BillContent struct {
	BillID        int64             `json:"billId"`
	BillNo        string            `json:"billNo"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	TotalAmount   float64           `json:"totalAmount"`
	CreatedAt     time.Time         `json:"createdAt"`
	BillItems     []BillContentItem `json:"billItems"`
}

// BillContentItem is one invoice line as rendered in the email.
type BillContentItem struct {
	ItemName  string  `json:"itemName"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}
