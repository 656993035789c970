package domain

import "errors"

// ErrorKind is the error taxonomy of spec.md §7. Each orchestrator stage
// returns one of these (wrapped with context via fmt.Errorf("%w: ...")) so
// the orchestrator can apply the matching handling policy without string
// matching.
type ErrorKind string

const (
	KindInvalidInput          ErrorKind = "invalid_input"
	KindRemoteInferenceFailure ErrorKind = "remote_inference_failure"
	KindSchemaValidationFailure ErrorKind = "schema_validation_failure"
	KindStorageFailure        ErrorKind = "storage_failure"
	KindEncryptionFailure     ErrorKind = "encryption_failure"
	KindClientDisconnected    ErrorKind = "client_disconnected"
	KindQueueConnectionLost   ErrorKind = "queue_connection_lost"
)

// Sentinel errors, one per ErrorKind, checked with errors.Is after
// fmt.Errorf("%w: ...") wrapping at the call site.
var (
	// ErrInvalidInput: bad base64, missing %PDF magic, zero pages, empty
	// parser output.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRemoteInferenceFailure: parser/captioner/embedder/reranker/LLM
	// error or timeout.
	ErrRemoteInferenceFailure = errors.New("remote inference failure")

	// ErrSchemaValidationFailure: LLM output does not satisfy
	// TextWithCitations / the query-optimizer schema.
	ErrSchemaValidationFailure = errors.New("schema validation failure")

	// ErrStorageFailure: blob store or DB error.
	ErrStorageFailure = errors.New("storage failure")

	// ErrEncryptionFailure: missing key when encryption is required.
	ErrEncryptionFailure = errors.New("encryption failure")

	// ErrClientDisconnected: the HTTP client closed its connection
	// mid-stream during retrieval.
	ErrClientDisconnected = errors.New("client disconnected")

	// ErrQueueConnectionLost: the Redis connection backing the work queue
	// dropped; the worker reconnects and resumes BLPOP (no message loss,
	// since BLPOP is atomic).
	ErrQueueConnectionLost = errors.New("queue connection lost")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("not found")
)

// Kind maps a sentinel error to its ErrorKind for handling-policy dispatch.
// Returns "" if err does not wrap one of the known sentinels.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrRemoteInferenceFailure):
		return KindRemoteInferenceFailure
	case errors.Is(err, ErrSchemaValidationFailure):
		return KindSchemaValidationFailure
	case errors.Is(err, ErrStorageFailure):
		return KindStorageFailure
	case errors.Is(err, ErrEncryptionFailure):
		return KindEncryptionFailure
	case errors.Is(err, ErrClientDisconnected):
		return KindClientDisconnected
	case errors.Is(err, ErrQueueConnectionLost):
		return KindQueueConnectionLost
	default:
		return ""
	}
}
