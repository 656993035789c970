package domain

import "github.com/gofrs/uuid"

// NewID returns a fresh random UUID string, used for ParentChunk, DocumentChunk,
// Message, and OptimizedQuery identifiers.
func NewID() string {
	id, err := uuid.NewV4()
	if err != nil {
		// uuid.NewV4 only fails if the system RNG is broken; there is no
		// sensible fallback identifier in that case.
		panic("domain: failed to generate uuid: " + err.Error())
	}
	return id.String()
}
