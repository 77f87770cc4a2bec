package models

import (
	"encoding/json"
	"time"
)

// Template is a stored message template. Content may carry placeholders in
// either `#{name}` or `{{name}}` syntax.
type Template struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Title             *string         `json:"title,omitempty"`
	Content           string          `json:"content"`
	KakaoTemplateCode *string         `json:"kakao_template_code,omitempty"`
	Buttons           json.RawMessage `json:"buttons,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TemplateFilter holds filtering options for listing templates
type TemplateFilter struct {
	Name     string
	Page     int
	PageSize int
}

// Validate performs validation on template data
func (t *Template) Validate() error {
	if t.Name == "" {
		return ErrInvalidInput("name is required")
	}
	if t.Content == "" {
		return ErrInvalidInput("content is required")
	}
	if t.Buttons != nil && !json.Valid(t.Buttons) {
		return ErrInvalidInput("buttons must be valid JSON")
	}
	return nil
}
