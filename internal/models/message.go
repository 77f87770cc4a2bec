package models

import "time"

// Message kind constants, matching the aggregators' type names
const (
	KindSMS      = "sms"
	KindLMS      = "lms"
	KindMMS      = "mms"
	KindAlimtalk = "alimtalk"
)

// Message log status constants
const (
	LogStatusSuccess = "success"
	LogStatusFailed  = "failed"
)

// Recipient is a send target constructed per request, either from caller
// input or from a participant query. It is never persisted by this path.
type Recipient struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone"`
	CustomerID *int64 `json:"customer_id,omitempty"`
}

// Validate performs basic validation on recipient data
func (r *Recipient) Validate() error {
	if r.Phone == "" {
		return ErrInvalidInput("recipient phone is required")
	}
	return nil
}

// SendResult is the per-recipient outcome of a dispatch. It exists only in
// the HTTP response and the log insert.
type SendResult struct {
	Phone     string `json:"phone"`
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Cost      int    `json:"cost"`
	Error     string `json:"error,omitempty"`
}

// MessageLog is an append-only record of one send attempt. Rows are
// inserted after every attempt and never updated or deleted.
type MessageLog struct {
	ID           int64     `json:"id"`
	CustomerID   *int64    `json:"customer_id,omitempty"`
	MessageType  string    `json:"message_type"`
	PhoneNumber  string    `json:"phone_number"`
	Title        *string   `json:"title,omitempty"`
	Content      string    `json:"content"`
	Status       string    `json:"status"`
	Cost         int       `json:"cost"`
	SentAt       time.Time `json:"sent_at"`
	ErrorMessage *string   `json:"error_message,omitempty"`
}

// MessageLogFilter holds filtering options for listing message logs
type MessageLogFilter struct {
	CustomerID  int64
	Status      string
	MessageType string
	Page        int
	PageSize    int
}

// IsValidKind checks if the message kind is valid
func IsValidKind(kind string) bool {
	switch kind {
	case KindSMS, KindLMS, KindMMS, KindAlimtalk:
		return true
	default:
		return false
	}
}
