package models

// User represents a row in the users table. Users are pre-seeded and only
// referenced by stock_logs as the acting user of a movement.
type User struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
}
