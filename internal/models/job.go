package models

// BulkSendJob is a queued dispatch request drained by the worker. One job
// carries a chunk of recipients that share the same template and kind.
type BulkSendJob struct {
	JobID      string            `json:"job_id"`
	Kind       string            `json:"kind"`
	Recipients []Recipient       `json:"recipients"`
	TemplateID *int64            `json:"template_id,omitempty"`
	Title      *string           `json:"title,omitempty"`
	Content    string            `json:"content,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
}
