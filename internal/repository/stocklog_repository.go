package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cafe-inventory/internal/models"
)

// StockLogRepository defines the operations on the append-only movement
// log. Rows are inserted and read, never updated or deleted.
type StockLogRepository interface {
	CreateLog(ctx context.Context, log *models.StockLog) error
	ListLogsWithDetails(ctx context.Context) ([]*models.StockLogWithDetails, error)
}

// stockLogRepository implements StockLogRepository
type stockLogRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

// NewStockLogRepository creates the repository and prepares its statements
func NewStockLogRepository(db *sql.DB) (StockLogRepository, error) {
	repo := &stockLogRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := repo.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return repo, nil
}

func (r *stockLogRepository) prepareStatements() error {
	statements := map[string]string{
		"create_log": `
			INSERT INTO stock_logs (item_id, user_id, change, timestamp, memo)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
		// id DESC breaks same-second timestamp ties deterministically
		"list_logs_with_details": `
			SELECT sl.id, sl.item_id, sl.user_id, sl.change, sl.timestamp, sl.memo,
				   i.name AS item_name,
				   u.username
			FROM stock_logs sl
			JOIN items i ON sl.item_id = i.id
			JOIN users u ON sl.user_id = u.id
			ORDER BY sl.timestamp DESC, sl.id DESC
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

// CreateLog appends one movement row and fills in its assigned id
func (r *stockLogRepository) CreateLog(ctx context.Context, log *models.StockLog) error {
	err := r.stmts["create_log"].QueryRowContext(ctx,
		log.ItemID, log.UserID, log.Change, log.Timestamp, log.Memo,
	).Scan(&log.ID)

	if err != nil {
		return fmt.Errorf("failed to create stock log: %w", mapReferenceError(err))
	}

	return nil
}

// ListLogsWithDetails returns every movement joined with its item name and
// username, newest first
func (r *stockLogRepository) ListLogsWithDetails(ctx context.Context) ([]*models.StockLogWithDetails, error) {
	rows, err := r.stmts["list_logs_with_details"].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.StockLogWithDetails
	for rows.Next() {
		var log models.StockLogWithDetails
		err := rows.Scan(
			&log.ID, &log.ItemID, &log.UserID, &log.Change,
			&log.Timestamp, &log.Memo, &log.ItemName, &log.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
