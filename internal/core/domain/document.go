package domain

// ParentChunk is a ~2000-char semantic block used both as LLM context and
// as the citation target. Content carries the `<<<n>>>…<<</n>>>` markers
// wrapping the FlatChunk ids it was built from; CleanContent is the same
// text with markers stripped, derived at read time (§4.7).
type ParentChunk struct {
	ID           string `json:"id"`
	SourceID     string `json:"source_id"`
	Content      string `json:"content"`
	CleanContent string `json:"-"`
	// ChildrenIDs is the sorted set of FlatChunk marker ids found in Content.
	ChildrenIDs []int `json:"children_ids"`
}

// DocumentChunk is the ~500-char retrieval unit carrying the embedding. Its
// Content is marker-stripped; ParentIDs is the flattened, deduped,
// first-appearance-ordered list of ParentChunk ids it maps back to (the
// canonical resolution of spec.md §9's "nested vs. flattened" question).
type DocumentChunk struct {
	ID        string    `json:"id"`
	SourceID  string    `json:"source_id"`
	Content   string    `json:"content"`
	ParentIDs []string  `json:"parent_ids"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// RankedParentChunk pairs a fetched parent chunk with the score assigned
// by the keyword branch (0 for vector-branch hits, where ordering is by
// distance rather than an additive score).
type RankedParentChunk struct {
	ParentChunk
	Score float64
}

// Image is a captioned image extracted during parsing, referenced in
// rewritten markdown by ImageID and stored at "{userId}/{imageId}.png".
type Image struct {
	ImageID string `json:"image_id"`
	Bytes   []byte `json:"-"`
}
