package billing

type CreateBillRequest struct {
	CustomerID  int64               `json:"customerId" validate:"required,gt=0"`
	TotalAmount float64             `json:"totalAmount" validate:"gte=0"`
	BillItems   []CreateBillItemReq `json:"billItems" validate:"required,min=1,dive"`
}

type CreateBillItemReq struct {
	ItemID    int64   `json:"itemId" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
	Subtotal  float64 `json:"subtotal" validate:"gte=0"`
}

type CreateBillResponse struct {
	ID int64 `json:"id"`
}
