package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
)

// MessageLogRepository defines the interface for message log data access.
// The log table is an append-only sink: rows are inserted and listed,
// never updated.
type MessageLogRepository interface {
	Insert(ctx context.Context, log *models.MessageLog) error
	List(ctx context.Context, filter models.MessageLogFilter) ([]*models.MessageLog, int64, error)
}

// messageLogRepository implements MessageLogRepository using PostgreSQL
type messageLogRepository struct {
	db *sql.DB
}

// NewMessageLogRepository creates a new message log repository
func NewMessageLogRepository(db *sql.DB) MessageLogRepository {
	return &messageLogRepository{db: db}
}

// Insert appends a new message log row
func (r *messageLogRepository) Insert(ctx context.Context, log *models.MessageLog) error {
	query := `
		INSERT INTO message_logs (customer_id, message_type, phone_number, title, content, status, cost, sent_at, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRowContext(
		ctx,
		query,
		log.CustomerID,
		log.MessageType,
		log.PhoneNumber,
		log.Title,
		log.Content,
		log.Status,
		log.Cost,
		log.SentAt,
		log.ErrorMessage,
	).Scan(&log.ID)

	if err != nil {
		return fmt.Errorf("failed to insert message log: %w", err)
	}

	return nil
}

// List retrieves message logs with pagination and filtering
func (r *messageLogRepository) List(ctx context.Context, filter models.MessageLogFilter) ([]*models.MessageLog, int64, error) {
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	query := `
		SELECT id, customer_id, message_type, phone_number, title, content, status, cost, sent_at, error_message
		FROM message_logs
		WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM message_logs WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.CustomerID > 0 {
		query += fmt.Sprintf(" AND customer_id = $%d", argPos)
		countQuery += fmt.Sprintf(" AND customer_id = $%d", argPos)
		args = append(args, filter.CustomerID)
		argPos++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		countQuery += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}

	if filter.MessageType != "" {
		query += fmt.Sprintf(" AND message_type = $%d", argPos)
		countQuery += fmt.Sprintf(" AND message_type = $%d", argPos)
		args = append(args, filter.MessageType)
		argPos++
	}

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count message logs: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY sent_at DESC, id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list message logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.MessageLog{}
	for rows.Next() {
		log := &models.MessageLog{}
		err := rows.Scan(
			&log.ID,
			&log.CustomerID,
			&log.MessageType,
			&log.PhoneNumber,
			&log.Title,
			&log.Content,
			&log.Status,
			&log.Cost,
			&log.SentAt,
			&log.ErrorMessage,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan message log: %w", err)
		}
		logs = append(logs, log)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating message logs: %w", err)
	}

	return logs, totalCount, nil
}
