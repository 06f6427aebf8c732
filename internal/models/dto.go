package models

// ===== REQUEST DTOs =====

// CreateItemRequest DTO for the item registration form (POST /items/new)
type CreateItemRequest struct {
	Name           string `form:"name" validate:"required"`
	Unit           string `form:"unit" validate:"required"`
	CategoryID     int    `form:"category_id" validate:"required,gt=0"`
	AlertThreshold int    `form:"alert_threshold" validate:"gte=0"`
	Note           string `form:"note"`
}

// RecordMovementRequest DTO for the stock movement form (POST /stock).
// Action is deliberately not restricted to in/out: any value other than
// "in" records an outflow, matching the form's historical behavior.
type RecordMovementRequest struct {
	ItemID   int    `form:"item_id" validate:"required,gt=0"`
	Quantity int    `form:"quantity" validate:"required,gt=0"`
	Memo     string `form:"memo"`
	Action   string `form:"action"`
	UserID   int    `form:"-" json:"-"` // threaded from the acting-user context, never from the form
}

// ===== RESPONSE DTOs =====

// ItemListResponse payload for GET /items
type ItemListResponse struct {
	Items      []*ItemWithStock `json:"items"`
	StockByID  map[int]int      `json:"stock_by_id"`
	TotalItems int              `json:"total_items"`
}

// MovementListResponse payload for GET /stock/list
type MovementListResponse struct {
	Movements      []*StockLogWithDetails `json:"movements"`
	TotalMovements int                    `json:"total_movements"`
}
