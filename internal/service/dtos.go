package service

import (
	"encoding/json"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
)

// SendMessageRequest is the payload for synchronous and bulk dispatch
type SendMessageRequest struct {
	Kind       string             `json:"type"`
	Recipients []models.Recipient `json:"recipients"`
	Title      *string            `json:"title,omitempty"`
	Content    string             `json:"content,omitempty"`
	TemplateID *int64             `json:"template_id,omitempty"`
	Variables  map[string]string  `json:"variables,omitempty"`
}

// Validate performs validation on the send request
func (r *SendMessageRequest) Validate() error {
	if len(r.Recipients) == 0 {
		return models.ErrInvalidInput("recipients is required and cannot be empty")
	}
	for i := range r.Recipients {
		if err := r.Recipients[i].Validate(); err != nil {
			return err
		}
	}
	if r.Kind != "" && !models.IsValidKind(r.Kind) {
		return models.ErrInvalidInput("invalid type (must be 'sms', 'lms', 'mms' or 'alimtalk')")
	}
	if r.Content == "" && r.TemplateID == nil {
		return models.ErrInvalidInput("content or template_id is required")
	}
	if r.Kind == models.KindAlimtalk && r.TemplateID == nil {
		return models.ErrInvalidInput("alimtalk requires a template_id")
	}
	return nil
}

// SendMessageResult is the aggregate outcome of a dispatch
type SendMessageResult struct {
	Success bool                 `json:"success"`
	Sent    int                  `json:"sent"`
	Failed  int                  `json:"failed"`
	Total   int                  `json:"total"`
	Cost    int                  `json:"cost"`
	Results []*models.SendResult `json:"results"`
}

// BulkSendResult reports how many jobs were queued
type BulkSendResult struct {
	JobsQueued int    `json:"jobs_queued"`
	Recipients int    `json:"recipients"`
	GroupID    string `json:"group_id"`
}

// PreviewRequest renders a message for one recipient without sending
type PreviewRequest struct {
	Recipient  models.Recipient  `json:"recipient"`
	Content    string            `json:"content,omitempty"`
	TemplateID *int64            `json:"template_id,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
}

// Validate performs validation on the preview request
func (r *PreviewRequest) Validate() error {
	if err := r.Recipient.Validate(); err != nil {
		return err
	}
	if r.Content == "" && r.TemplateID == nil {
		return models.ErrInvalidInput("content or template_id is required")
	}
	return nil
}

// PreviewResult is a rendered message preview
type PreviewResult struct {
	RenderedTitle   *string `json:"rendered_title,omitempty"`
	RenderedContent string  `json:"rendered_content"`
	Kind            string  `json:"kind"`
	Phone           string  `json:"phone"`
}

// CreateTemplateRequest is the payload for creating a template
type CreateTemplateRequest struct {
	Name              string          `json:"name"`
	Title             *string         `json:"title,omitempty"`
	Content           string          `json:"content"`
	KakaoTemplateCode *string         `json:"kakao_template_code,omitempty"`
	Buttons           json.RawMessage `json:"buttons,omitempty"`
}

// UpdateTemplateRequest is the payload for updating a template
type UpdateTemplateRequest struct {
	Name              string          `json:"name"`
	Title             *string         `json:"title,omitempty"`
	Content           string          `json:"content"`
	KakaoTemplateCode *string         `json:"kakao_template_code,omitempty"`
	Buttons           json.RawMessage `json:"buttons,omitempty"`
}

// TemplateListResult represents paginated template list results
type TemplateListResult struct {
	Data       []*models.Template      `json:"data"`
	Pagination models.PaginationResult `json:"pagination"`
}

// MessageLogListResult represents paginated message log list results
type MessageLogListResult struct {
	Data       []*models.MessageLog    `json:"data"`
	Pagination models.PaginationResult `json:"pagination"`
}
