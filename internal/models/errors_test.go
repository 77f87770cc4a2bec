package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		sentinel error
	}{
		{
			name:     "invalid input",
			err:      ErrInvalidInput("recipients is required"),
			wantCode: "INVALID_INPUT",
			sentinel: nil,
		},
		{
			name:     "not found wraps sentinel",
			err:      ErrNotFoundWithMsg("template with ID 7 not found"),
			wantCode: "NOT_FOUND",
			sentinel: ErrNotFound,
		},
		{
			name:     "conflict wraps sentinel",
			err:      ErrConflictWithMsg(`template with name "booking-confirmed" already exists`),
			wantCode: "CONFLICT",
			sentinel: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *AppError
			if !errors.As(tt.err, &appErr) {
				t.Fatalf("error %v is not an AppError", tt.err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", appErr.Code, tt.wantCode)
			}
			if tt.sentinel != nil && !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}
}

func TestAppErrorSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("failed to create template: %w", ErrConflictWithMsg("name taken"))

	if !errors.Is(err, ErrConflict) {
		t.Error("wrapped conflict should still match ErrConflict")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
		t.Error("wrapped conflict should still expose its AppError code")
	}
}
