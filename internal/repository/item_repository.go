package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cafe-inventory/internal/models"

	"github.com/lib/pq"
)

// ErrReferenceNotFound reports an insert that pointed at a missing row
// (foreign key violation). Handlers surface it as a validation error
// instead of a server fault.
var ErrReferenceNotFound = errors.New("referenced row does not exist")

// foreignKeyViolation is the PostgreSQL error code for FK violations
const foreignKeyViolation = "23503"

// ItemRepository defines the read and write operations on items,
// categories and derived stock levels
type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	ListItemsWithStock(ctx context.Context) ([]*models.ItemWithStock, error)
	ListItemRefs(ctx context.Context) ([]*models.ItemRef, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCurrentStock(ctx context.Context, itemID int) (int, error)
	ListLowStock(ctx context.Context) ([]*models.LowStockItem, error)
}

// itemRepository implements ItemRepository over database/sql
type itemRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

// NewItemRepository creates the repository and prepares its statements
func NewItemRepository(db *sql.DB) (ItemRepository, error) {
	repo := &itemRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := repo.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return repo, nil
}

// prepareStatements prepares every query once, up front
func (r *itemRepository) prepareStatements() error {
	statements := map[string]string{
		"create_item": `
			INSERT INTO items (name, unit, category_id, alert_threshold, note)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
		// Single grouped aggregation instead of one SUM query per item;
		// output is row-for-row identical to the per-item variant.
		"list_items_with_stock": `
			SELECT i.id, i.name, i.unit, i.category_id, i.alert_threshold, i.note,
				   c.name AS category_name,
				   COALESCE(SUM(sl.change), 0) AS current_stock
			FROM items i
			JOIN categories c ON i.category_id = c.id
			LEFT JOIN stock_logs sl ON sl.item_id = i.id
			GROUP BY i.id, i.name, i.unit, i.category_id, i.alert_threshold, i.note, c.name
			ORDER BY i.id ASC
		`,
		"list_item_refs": `
			SELECT id, name FROM items ORDER BY id ASC
		`,
		"list_categories": `
			SELECT id, name FROM categories ORDER BY id ASC
		`,
		"get_current_stock": `
			SELECT COALESCE(SUM(change), 0)
			FROM stock_logs
			WHERE item_id = $1
		`,
		"list_low_stock": `
			SELECT i.id, i.name, i.unit, i.alert_threshold,
				   COALESCE(SUM(sl.change), 0) AS current_stock
			FROM items i
			LEFT JOIN stock_logs sl ON sl.item_id = i.id
			GROUP BY i.id, i.name, i.unit, i.alert_threshold
			HAVING COALESCE(SUM(sl.change), 0) <= i.alert_threshold
			ORDER BY current_stock ASC
		`,
	}

	for name, query := range statements {
		stmt, err := r.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare %s: %w", name, err)
		}
		r.stmts[name] = stmt
	}

	return nil
}

// CreateItem inserts a new item and fills in its assigned id
func (r *itemRepository) CreateItem(ctx context.Context, item *models.Item) error {
	err := r.stmts["create_item"].QueryRowContext(ctx,
		item.Name, item.Unit, item.CategoryID, item.AlertThreshold, item.Note,
	).Scan(&item.ID)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", mapReferenceError(err))
	}

	return nil
}

// ListItemsWithStock returns every item with its category name and derived
// current stock, ordered by ascending id
func (r *itemRepository) ListItemsWithStock(ctx context.Context) ([]*models.ItemWithStock, error) {
	rows, err := r.stmts["list_items_with_stock"].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.ItemWithStock
	for rows.Next() {
		var item models.ItemWithStock
		err := rows.Scan(
			&item.ID, &item.Name, &item.Unit, &item.CategoryID,
			&item.AlertThreshold, &item.Note, &item.CategoryName, &item.CurrentStock,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

// ListItemRefs returns the id/name pairs for the movement form picker
func (r *itemRepository) ListItemRefs(ctx context.Context) ([]*models.ItemRef, error) {
	rows, err := r.stmts["list_item_refs"].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list item refs: %w", err)
	}
	defer rows.Close()

	var refs []*models.ItemRef
	for rows.Next() {
		var ref models.ItemRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan item ref: %w", err)
		}
		refs = append(refs, &ref)
	}

	return refs, rows.Err()
}

// ListCategories returns the id/name pairs for the item form picker
func (r *itemRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.stmts["list_categories"].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

// GetCurrentStock sums the signed changes for one item. Items with no log
// rows yield 0, never a missing result.
func (r *itemRepository) GetCurrentStock(ctx context.Context, itemID int) (int, error) {
	var stock int
	err := r.stmts["get_current_stock"].QueryRowContext(ctx, itemID).Scan(&stock)
	if err != nil {
		return 0, fmt.Errorf("failed to get current stock: %w", err)
	}

	return stock, nil
}

// ListLowStock returns items whose derived stock has reached their alert
// threshold, lowest stock first
func (r *itemRepository) ListLowStock(ctx context.Context) ([]*models.LowStockItem, error) {
	rows, err := r.stmts["list_low_stock"].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	defer rows.Close()

	var items []*models.LowStockItem
	for rows.Next() {
		var item models.LowStockItem
		err := rows.Scan(&item.ID, &item.Name, &item.Unit, &item.AlertThreshold, &item.CurrentStock)
		if err != nil {
			return nil, fmt.Errorf("failed to scan low stock item: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

// mapReferenceError converts a PostgreSQL FK violation into
// ErrReferenceNotFound, leaving every other error untouched
func mapReferenceError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
		return ErrReferenceNotFound
	}
	return err
}
