package domain

import "time"

// IngestionStatus is the per-source processing state published on the
// status channel and stored alongside the Source row. Transitions are
// monotonic along the pipeline; failed is terminal and reachable from any
// stage.
type IngestionStatus string

const (
	StatusUploading  IngestionStatus = "uploading"
	StatusQueued     IngestionStatus = "queued"
	StatusProcessing IngestionStatus = "processing"
	StatusStarting   IngestionStatus = "starting"
	StatusVision     IngestionStatus = "vision"
	StatusExtracting IngestionStatus = "extracting"
	StatusImages     IngestionStatus = "images"
	StatusChunking   IngestionStatus = "chunking"
	StatusCompleted  IngestionStatus = "completed"
	StatusFailed     IngestionStatus = "failed"
)

// validStatuses is the enumerated value set the status channel accepts;
// anything else is rejected rather than silently written.
var validStatuses = map[IngestionStatus]struct{}{
	StatusUploading:  {},
	StatusQueued:     {},
	StatusProcessing: {},
	StatusStarting:   {},
	StatusVision:     {},
	StatusExtracting: {},
	StatusImages:     {},
	StatusChunking:   {},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// Valid reports whether s is one of the enumerated status values.
func (s IngestionStatus) Valid() bool {
	_, ok := validStatuses[s]
	return ok
}

// EncryptionType selects how a message/document's content is protected at
// rest. NotEncrypted stores plaintext; the other two both use the same
// AES-256-GCM envelope codec, differing only in which entities get
// encrypted (see domain.ShouldEncrypt).
type EncryptionType string

const (
	NotEncrypted      EncryptionType = "none"
	StandardEncrypted EncryptionType = "standard"
	AdvancedEncrypted EncryptionType = "advanced"
)

// FlatChunkType tags a FlatChunk as originating from running text or from
// a markdown table block.
type FlatChunkType string

const (
	FlatChunkText  FlatChunkType = "text"
	FlatChunkTable FlatChunkType = "table"
)

// FlatChunk is the smallest provenance unit: a 0-indexed, per-source,
// tagged text-or-table segment produced by stage 1 of the chunker (§4.3).
type FlatChunk struct {
	ID      int           `json:"id"`
	Type    FlatChunkType `json:"type"`
	Content string        `json:"content"`
}

// Source is one uploaded document or URL. Content is the ordered sequence
// of FlatChunks; its concatenation in id order reproduces the parsed
// document (modulo collapsed empty gaps).
type Source struct {
	ID               string          `json:"id"`
	NotebookID       string          `json:"notebook_id"`
	UserID           string          `json:"user_id"`
	ProcessingStatus IngestionStatus `json:"processing_status"`
	Content          []FlatChunk     `json:"content"`
	ImagePaths       []string        `json:"image_paths"`
	EncryptionType   EncryptionType  `json:"encryption_type"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// EncryptableKind identifies which entity's content is being considered
// for encryption, since the policy differs by kind (see ShouldEncrypt).
type EncryptableKind string

const (
	KindDocumentChunk EncryptableKind = "document_chunk"
	KindParentChunk   EncryptableKind = "parent_chunk"
	KindSourceContent EncryptableKind = "source_content"
	KindMessage       EncryptableKind = "message"
)

// ShouldEncrypt reports whether an entity of the given kind should be
// encrypted under encType. DocumentChunk content is encrypted only under
// AdvancedEncrypted; ParentChunk, Source content, and Message content are
// encrypted under any non-NotEncrypted type. This is the literal
// resolution spec.md §9 adopts for the "advanced mode" open question.
func ShouldEncrypt(kind EncryptableKind, encType EncryptionType) bool {
	if encType == NotEncrypted {
		return false
	}
	if kind == KindDocumentChunk {
		return encType == AdvancedEncrypted
	}
	return true
}
