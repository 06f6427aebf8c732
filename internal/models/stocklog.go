package models

// TimestampLayout is the storage format of StockLog.Timestamp, second
// precision, no timezone.
const TimestampLayout = "2006-01-02 15:04:05"

// Movement actions accepted by the stock form. Any value other than
// ActionIn is treated as an outflow.
const (
	ActionIn  = "in"
	ActionOut = "out"
)

// StockLog represents a row in the stock_logs table. Rows are append-only:
// never updated, never deleted. The sum of Change per item is the item's
// current stock.
type StockLog struct {
	ID        int    `json:"id" db:"id"`
	ItemID    int    `json:"item_id" db:"item_id"`
	UserID    int    `json:"user_id" db:"user_id"`
	Change    int    `json:"change" db:"change"`
	Timestamp string `json:"timestamp" db:"timestamp"`
	Memo      string `json:"memo" db:"memo"`
}

// StockLogWithDetails includes the joined item name and username
type StockLogWithDetails struct {
	StockLog
	ItemName string `json:"item_name,omitempty"`
	Username string `json:"username,omitempty"`
}
