package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
)

// TemplateRepository defines the interface for message template data access
type TemplateRepository interface {
	Create(ctx context.Context, tmpl *models.Template) error
	GetByID(ctx context.Context, id int64) (*models.Template, error)
	List(ctx context.Context, filter models.TemplateFilter) ([]*models.Template, int64, error)
	Update(ctx context.Context, tmpl *models.Template) error
	Delete(ctx context.Context, id int64) error
}

// templateRepository implements TemplateRepository using PostgreSQL
type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (the template name carries a unique index)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Create inserts a new template
func (r *templateRepository) Create(ctx context.Context, tmpl *models.Template) error {
	query := `
		INSERT INTO message_templates (name, title, content, kakao_template_code, buttons)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		tmpl.Name,
		tmpl.Title,
		tmpl.Content,
		tmpl.KakaoTemplateCode,
		tmpl.Buttons,
	).Scan(&tmpl.ID, &tmpl.CreatedAt, &tmpl.UpdatedAt)

	if isUniqueViolation(err) {
		return models.ErrConflictWithMsg(fmt.Sprintf("template with name %q already exists", tmpl.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by ID
func (r *templateRepository) GetByID(ctx context.Context, id int64) (*models.Template, error) {
	query := `
		SELECT id, name, title, content, kakao_template_code, buttons, created_at, updated_at
		FROM message_templates
		WHERE id = $1`

	tmpl := &models.Template{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tmpl.ID,
		&tmpl.Name,
		&tmpl.Title,
		&tmpl.Content,
		&tmpl.KakaoTemplateCode,
		&tmpl.Buttons,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("template with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return tmpl, nil
}

// List retrieves templates with pagination and filtering
func (r *templateRepository) List(ctx context.Context, filter models.TemplateFilter) ([]*models.Template, int64, error) {
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	query := `
		SELECT id, name, title, content, kakao_template_code, buttons, created_at, updated_at
		FROM message_templates
		WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM message_templates WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		countQuery += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+filter.Name+"%")
		argPos++
	}

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count templates: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.Template{}
	for rows.Next() {
		tmpl := &models.Template{}
		err := rows.Scan(
			&tmpl.ID,
			&tmpl.Name,
			&tmpl.Title,
			&tmpl.Content,
			&tmpl.KakaoTemplateCode,
			&tmpl.Buttons,
			&tmpl.CreatedAt,
			&tmpl.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tmpl)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, totalCount, nil
}

// Update updates an existing template
func (r *templateRepository) Update(ctx context.Context, tmpl *models.Template) error {
	query := `
		UPDATE message_templates
		SET name = $1, title = $2, content = $3, kakao_template_code = $4, buttons = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		tmpl.Name,
		tmpl.Title,
		tmpl.Content,
		tmpl.KakaoTemplateCode,
		tmpl.Buttons,
		tmpl.ID,
	).Scan(&tmpl.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("template with ID %d not found", tmpl.ID))
	}
	if isUniqueViolation(err) {
		return models.ErrConflictWithMsg(fmt.Sprintf("template with name %q already exists", tmpl.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	return nil
}

// Delete removes a template
func (r *templateRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM message_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("template with ID %d not found", id))
	}

	return nil
}
