package domain

// RetrievalCheckpoint is one status frame emitted by the retrieval
// orchestrator, in the fixed order spec.md §4.10 lists. Each is emitted
// before its phase begins.
type RetrievalCheckpoint string

const (
	CheckpointPreparingQuestion    RetrievalCheckpoint = "preparing_question"
	CheckpointRetrievingChunks     RetrievalCheckpoint = "retrieving_chunks"
	CheckpointGettingParentChunks  RetrievalCheckpoint = "getting_parent_chunks"
	CheckpointFilteringParentChunks RetrievalCheckpoint = "filtering_parent_chunks"
	CheckpointExtractingContent    RetrievalCheckpoint = "extracting_content"
	CheckpointGeneratingResponse   RetrievalCheckpoint = "generating_response"
	CheckpointSummarizingContent   RetrievalCheckpoint = "summarizing_content"
	CheckpointPreparingContext     RetrievalCheckpoint = "preparing_context"
	CheckpointSavingToDB           RetrievalCheckpoint = "saving_to_db"
	CheckpointCleaningUp           RetrievalCheckpoint = "cleaning_up"
)

// RetrievalCheckpointOrder is the literal sequence spec.md §4.10 mandates.
var RetrievalCheckpointOrder = []RetrievalCheckpoint{
	CheckpointPreparingQuestion,
	CheckpointRetrievingChunks,
	CheckpointGettingParentChunks,
	CheckpointFilteringParentChunks,
	CheckpointExtractingContent,
	CheckpointGeneratingResponse,
	CheckpointSummarizingContent,
	CheckpointPreparingContext,
	CheckpointSavingToDB,
	CheckpointCleaningUp,
}
