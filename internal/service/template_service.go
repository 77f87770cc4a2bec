package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/repository"
	"github.com/fairwaygolf/tour-messaging-backend/internal/template"
)

// TemplateService handles message template management
type TemplateService interface {
	Create(ctx context.Context, req *CreateTemplateRequest) (*models.Template, error)
	GetByID(ctx context.Context, id int64) (*models.Template, error)
	List(ctx context.Context, filter models.TemplateFilter) (*TemplateListResult, error)
	Update(ctx context.Context, id int64, req *UpdateTemplateRequest) (*models.Template, error)
	Delete(ctx context.Context, id int64) error
}

type templateService struct {
	templateRepo repository.TemplateRepository
	renderer     template.Renderer
	logger       *slog.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(
	templateRepo repository.TemplateRepository,
	renderer template.Renderer,
	logger *slog.Logger,
) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		renderer:     renderer,
		logger:       logger,
	}
}

// Create stores a new template
func (s *templateService) Create(ctx context.Context, req *CreateTemplateRequest) (*models.Template, error) {
	tmpl := &models.Template{
		Name:              req.Name,
		Title:             req.Title,
		Content:           req.Content,
		KakaoTemplateCode: req.KakaoTemplateCode,
		Buttons:           req.Buttons,
	}

	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Create(ctx, tmpl); err != nil {
		s.logger.Error("failed to create template",
			slog.String("name", req.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Info("template created",
		slog.Int64("template_id", tmpl.ID),
		slog.String("name", tmpl.Name),
		slog.Int("placeholders", len(s.renderer.ExtractPlaceholders(tmpl.Content))),
	)

	return tmpl, nil
}

// GetByID retrieves a template by ID
func (s *templateService) GetByID(ctx context.Context, id int64) (*models.Template, error) {
	return s.templateRepo.GetByID(ctx, id)
}

// List retrieves templates with pagination
func (s *templateService) List(ctx context.Context, filter models.TemplateFilter) (*TemplateListResult, error) {
	templates, totalCount, err := s.templateRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	return &TemplateListResult{
		Data:       templates,
		Pagination: models.NewPaginationResult(filter.Page, filter.PageSize, totalCount),
	}, nil
}

// Update modifies an existing template
func (s *templateService) Update(ctx context.Context, id int64, req *UpdateTemplateRequest) (*models.Template, error) {
	tmpl := &models.Template{
		ID:                id,
		Name:              req.Name,
		Title:             req.Title,
		Content:           req.Content,
		KakaoTemplateCode: req.KakaoTemplateCode,
		Buttons:           req.Buttons,
	}

	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Update(ctx, tmpl); err != nil {
		return nil, err
	}

	s.logger.Info("template updated",
		slog.Int64("template_id", tmpl.ID),
		slog.String("name", tmpl.Name),
	)

	return tmpl, nil
}

// Delete removes a template
func (s *templateService) Delete(ctx context.Context, id int64) error {
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("template deleted", slog.Int64("template_id", id))
	return nil
}
