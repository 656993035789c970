package postgres

import "github.com/ragcore-labs/ragcore/internal/core/ports/driven"

var (
	_ driven.NotebookStore      = (*NotebookStore)(nil)
	_ driven.SourceStore        = (*SourceStore)(nil)
	_ driven.ParentChunkStore   = (*ParentChunkStore)(nil)
	_ driven.DocumentChunkStore = (*DocumentChunkStore)(nil)
	_ driven.MessageStore       = (*MessageStore)(nil)
	_ driven.Encryptor          = (*Codec)(nil)
)
