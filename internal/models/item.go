package models

// Item represents a row in the items table. Items are created once and
// never updated or deleted; quantities live exclusively in stock_logs.
type Item struct {
	ID             int    `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	Unit           string `json:"unit" db:"unit"`
	CategoryID     int    `json:"category_id" db:"category_id"`
	AlertThreshold int    `json:"alert_threshold" db:"alert_threshold"`
	Note           string `json:"note" db:"note"`
}

// ItemWithCategory includes the joined category name
type ItemWithCategory struct {
	Item
	CategoryName string `json:"category_name"`
}

// ItemWithStock is one row of the item listing: the joined item plus its
// current stock derived from stock_logs
type ItemWithStock struct {
	ItemWithCategory
	CurrentStock int `json:"current_stock"`
}

// ItemRef is a picker entry for the movement form
type ItemRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LowStockItem is an item whose derived stock has fallen to or below its
// alert threshold
type LowStockItem struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Unit           string `json:"unit"`
	AlertThreshold int    `json:"alert_threshold"`
	CurrentStock   int    `json:"current_stock"`
}
