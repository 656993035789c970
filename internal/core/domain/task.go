package domain

// IngestionTaskType distinguishes a PDF upload from a URL fetch in the
// ingestion queue message (§6).
type IngestionTaskType string

const (
	TaskTypePDF IngestionTaskType = "pdf"
	TaskTypeURL IngestionTaskType = "url"
)

// IngestionTask is the JSON payload pushed onto the `file_processing_queue`
// Redis list and popped via blocking left-pop (§6). Exactly one of Base64
// or URL is set, matching Type.
type IngestionTask struct {
	Type           IngestionTaskType `json:"type"`
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	Base64         string            `json:"base64,omitempty"`
	URL            string            `json:"url,omitempty"`
	EncryptionType EncryptionType    `json:"encryption_type"`
	EncryptionKey  string            `json:"encryption_key,omitempty"`
}
