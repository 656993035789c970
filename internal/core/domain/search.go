package domain

// OptimizedQuery is an LLM-rewritten, de-contextualized search query with
// its own keyword list, embedding, and retrieved parent set. Produced 1..5
// per turn by the "prepare question" phase (§4.10).
type OptimizedQuery struct {
	ID             string   `json:"id"`
	OptimizedQuery string   `json:"optimized_query"`
	Keywords       []string `json:"keywords"`

	Embedding []float32 `json:"-"`
	// ParentIDs is the union of vector-branch and keyword-branch parent ids
	// found by the hybrid retriever (§4.6).
	ParentIDs []string `json:"-"`
	// ParentChunks is filled in by the parent-fetch stage (§4.7), then
	// narrowed to the top-K by the reranker driver (§4.8).
	ParentChunks []ParentChunk `json:"-"`
}

// FilteredQueryResult is the reranker driver's output (§4.8): the surviving
// parent chunks for one optimized query, each tagged with its source id.
type FilteredQueryResult struct {
	Query        OptimizedQuery         `json:"query"`
	ParentChunks []FilteredParentChunk `json:"parent_chunks"`
}

// FilteredParentChunk is a parent chunk surviving reranking, paired with
// the source id it's drawn from for prompt construction and citations.
type FilteredParentChunk struct {
	Content  string `json:"content"`
	SourceID string `json:"source_id"`
	ChunkID  string `json:"chunk_id"`
}

// Citation is one entry in the LLM's TextWithCitations output, referencing
// a source/chunk pair the answer text points to via a `[CITATION: n]`
// marker.
type Citation struct {
	Number   int    `json:"number"`
	SourceID string `json:"sourceId"`
	ChunkID  string `json:"chunkId"`
	Summary  string `json:"summary"`
}

// TextWithCitations is the JSON-schema-constrained shape the generator LLM
// must emit during the "extract" phase (§4.10).
type TextWithCitations struct {
	Text       string     `json:"text"`
	Citations  []Citation `json:"citations"`
}
