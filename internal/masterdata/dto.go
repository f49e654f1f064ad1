package masterdata

type SaveCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type SaveItemRequest struct {
	Name          string  `json:"name" validate:"required,max=150"`
	Description   string  `json:"description" validate:"max=500"`
	Price         float64 `json:"price" validate:"gte=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	CategoryID    *int64  `json:"categoryId" validate:"omitempty,gt=0"`
}

type ListItemsRequest struct {
	Search     string
	CategoryID *int64
}
