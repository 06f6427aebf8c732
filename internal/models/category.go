package models

// Category represents a row in the categories table. Categories are
// pre-seeded; no handler creates or mutates them.
type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
