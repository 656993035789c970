// Package services implements the core orchestrators: ingestion (§4.9)
// and retrieval (§4.10).
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ragcore-labs/ragcore/internal/chunker"
	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driving"
)

// IngestionConfig holds the chunk-size tuning and HTTP fetch timeout the
// ingestion orchestrator uses.
type IngestionConfig struct {
	Chunker    chunker.Config
	FetchTimeout time.Duration
}

// DefaultIngestionConfig returns the spec-literal chunk sizes and a 30s
// URL-fetch timeout.
func DefaultIngestionConfig() IngestionConfig {
	return IngestionConfig{
		Chunker:      chunker.DefaultConfig(),
		FetchTimeout: 30 * time.Second,
	}
}

// IngestionOrchestrator drives a queued task through the ingestion state
// machine (§4.9): queued -> starting -> extracting -> images -> chunking
// -> uploading -> completed, with failed reachable from any stage and no
// implicit retry.
type IngestionOrchestrator struct {
	cfg IngestionConfig
	log *slog.Logger

	parser    driven.Parser
	splitter  driven.PDFSplitter
	captioner driven.Captioner
	embedder  driven.Embedder
	encryptor driven.Encryptor

	sources   driven.SourceStore
	parents   driven.ParentChunkStore
	documents driven.DocumentChunkStore
	status    driven.StatusChannel
	lock      driven.DistributedLock

	httpClient *http.Client
}

var _ driving.IngestionOrchestrator = (*IngestionOrchestrator)(nil)

// NewIngestionOrchestrator wires an IngestionOrchestrator from its ports.
func NewIngestionOrchestrator(
	cfg IngestionConfig,
	log *slog.Logger,
	parser driven.Parser,
	splitter driven.PDFSplitter,
	captioner driven.Captioner,
	embedder driven.Embedder,
	encryptor driven.Encryptor,
	sources driven.SourceStore,
	parents driven.ParentChunkStore,
	documents driven.DocumentChunkStore,
	status driven.StatusChannel,
	lock driven.DistributedLock,
) *IngestionOrchestrator {
	return &IngestionOrchestrator{
		cfg:        cfg,
		log:        log,
		parser:     parser,
		splitter:   splitter,
		captioner:  captioner,
		embedder:   embedder,
		encryptor:  encryptor,
		sources:    sources,
		parents:    parents,
		documents:  documents,
		status:     status,
		lock:       lock,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// Process runs task through the full pipeline. Partial writes across
// stages are not transactional (§4.9): a failure after, say, parent
// chunks are persisted but before document chunks are does not roll back
// the parent chunks — the source is simply marked failed and left for a
// fresh re-ingestion, not an implicit retry.
func (o *IngestionOrchestrator) Process(ctx context.Context, task domain.IngestionTask) error {
	acquired, err := o.lock.Acquire(ctx, task.ID)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		o.log.Info("source already being processed, skipping", "source_id", task.ID)
		return nil
	}
	defer o.lock.Release(ctx, task.ID)

	if err := o.setStatus(ctx, task.ID, domain.StatusStarting); err != nil {
		return err
	}

	content, contentType, err := o.acquireContent(ctx, task)
	if err != nil {
		return o.fail(ctx, task.ID, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}

	if err := o.setStatus(ctx, task.ID, domain.StatusExtracting); err != nil {
		return err
	}
	markdown, images, err := o.extract(ctx, task, content, contentType)
	if err != nil {
		return o.fail(ctx, task.ID, err)
	}

	if len(images) > 0 {
		if err := o.setStatus(ctx, task.ID, domain.StatusImages); err != nil {
			return err
		}
		captions, err := o.captioner.Caption(ctx, images)
		if err != nil {
			return o.fail(ctx, task.ID, err)
		}
		markdown = chunker.RewriteImageReferences(markdown, images, captions, task.UserID)
	}

	if err := o.setStatus(ctx, task.ID, domain.StatusChunking); err != nil {
		return err
	}

	flats := chunker.BuildFlatChunks(markdown, o.cfg.Chunker)
	marked := chunker.Wrap(flats)
	parentChunks := chunker.BuildParentChunks(task.ID, marked, o.cfg.Chunker)
	documentChunks := chunker.BuildChildChunks(task.ID, marked, parentChunks, o.cfg.Chunker)

	texts := make([]string, len(documentChunks))
	for i, c := range documentChunks {
		texts[i] = c.Content
	}
	embeddings, err := o.embedder.Embed(ctx, texts)
	if err != nil {
		return o.fail(ctx, task.ID, err)
	}
	for i := range documentChunks {
		documentChunks[i].Embedding = embeddings[i]
	}

	if task.EncryptionType != domain.NotEncrypted {
		if task.EncryptionKey == "" {
			return o.fail(ctx, task.ID, fmt.Errorf("%w: encryption requested with no key", domain.ErrEncryptionFailure))
		}
		if err := o.encrypt(task, flats, parentChunks, documentChunks); err != nil {
			return o.fail(ctx, task.ID, err)
		}
	}

	imagePaths := make([]string, len(images))
	for i, img := range images {
		imagePaths[i] = fmt.Sprintf("%s/%s.png", task.UserID, img.ImageID)
	}

	if err := o.setStatus(ctx, task.ID, domain.StatusUploading); err != nil {
		return err
	}
	if err := o.sources.UpdateContent(ctx, task.ID, flats, imagePaths); err != nil {
		return o.fail(ctx, task.ID, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err))
	}
	if err := o.parents.CreateBatch(ctx, parentChunks); err != nil {
		return o.fail(ctx, task.ID, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err))
	}
	if err := o.documents.CreateBatch(ctx, documentChunks); err != nil {
		return o.fail(ctx, task.ID, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err))
	}

	return o.setStatus(ctx, task.ID, domain.StatusCompleted)
}

// extract runs the extracting stage (§4.9). A PDF task is first divided
// into page-group sub-PDFs by the splitter (§4.4); the parser is then
// fanned out across the groups concurrently, one call per group, and the
// resulting markdown is rejoined in page order with a "\n\n" separator.
// A non-PDF (URL) task has no page groups to split and is parsed in one
// call, same as before.
func (o *IngestionOrchestrator) extract(ctx context.Context, task domain.IngestionTask, content []byte, contentType string) (string, []domain.Image, error) {
	if task.Type != domain.TaskTypePDF {
		return o.parser.Parse(ctx, content, contentType)
	}

	groups, err := o.splitter.Split(content)
	if err != nil {
		return "", nil, fmt.Errorf("split pdf into page groups: %w", err)
	}
	if len(groups) == 0 {
		return "", nil, fmt.Errorf("%w: content is not a splittable pdf", domain.ErrInvalidInput)
	}

	var wg sync.WaitGroup
	markdowns := make([]string, len(groups))
	imagesByGroup := make([][]domain.Image, len(groups))
	errs := make([]error, len(groups))

	wg.Add(len(groups))
	for i, group := range groups {
		go func(i int, group []byte) {
			defer wg.Done()
			md, imgs, err := o.parser.Parse(ctx, group, contentType)
			markdowns[i] = md
			imagesByGroup[i] = imgs
			errs[i] = err
		}(i, group)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return "", nil, err
		}
	}

	var allImages []domain.Image
	for _, imgs := range imagesByGroup {
		allImages = append(allImages, imgs...)
	}

	return strings.Join(markdowns, "\n\n"), allImages, nil
}

// encrypt applies domain.ShouldEncrypt's per-kind policy (§9) to every
// piece of content the task touches, in place.
func (o *IngestionOrchestrator) encrypt(task domain.IngestionTask, flats []domain.FlatChunk, parents []domain.ParentChunk, documents []domain.DocumentChunk) error {
	if domain.ShouldEncrypt(domain.KindSourceContent, task.EncryptionType) {
		for i := range flats {
			envelope, err := o.encryptor.Encrypt(task.EncryptionKey, flats[i].Content)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrEncryptionFailure, err)
			}
			flats[i].Content = envelope
		}
	}

	if domain.ShouldEncrypt(domain.KindParentChunk, task.EncryptionType) {
		for i := range parents {
			envelope, err := o.encryptor.Encrypt(task.EncryptionKey, parents[i].Content)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrEncryptionFailure, err)
			}
			parents[i].Content = envelope
		}
	}

	if domain.ShouldEncrypt(domain.KindDocumentChunk, task.EncryptionType) {
		for i := range documents {
			envelope, err := o.encryptor.Encrypt(task.EncryptionKey, documents[i].Content)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrEncryptionFailure, err)
			}
			documents[i].Content = envelope
		}
	}

	return nil
}

// acquireContent returns the raw bytes and content type to parse: the
// decoded base64 payload for a PDF task, or a fetched URL's body.
func (o *IngestionOrchestrator) acquireContent(ctx context.Context, task domain.IngestionTask) ([]byte, string, error) {
	switch task.Type {
	case domain.TaskTypePDF:
		content, err := base64.StdEncoding.DecodeString(task.Base64)
		if err != nil {
			return nil, "", fmt.Errorf("decode base64: %w", err)
		}
		if len(content) < 4 || string(content[:4]) != "%PDF" {
			return nil, "", fmt.Errorf("missing PDF magic bytes")
		}
		return content, "application/pdf", nil

	case domain.TaskTypeURL:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
		if err != nil {
			return nil, "", fmt.Errorf("build request: %w", err)
		}
		resp, err := o.httpClient.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("fetch url: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", fmt.Errorf("read response: %w", err)
		}
		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "text/html"
		}
		return body, strings.Split(contentType, ";")[0], nil

	default:
		return nil, "", fmt.Errorf("unknown task type %q", task.Type)
	}
}

func (o *IngestionOrchestrator) setStatus(ctx context.Context, sourceID string, status domain.IngestionStatus) error {
	if err := o.status.Set(ctx, sourceID, status); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if err := o.sources.UpdateStatus(ctx, sourceID, status); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

func (o *IngestionOrchestrator) fail(ctx context.Context, sourceID string, cause error) error {
	o.log.Error("ingestion failed", "source_id", sourceID, "error", cause)
	_ = o.status.Set(ctx, sourceID, domain.StatusFailed)
	_ = o.sources.UpdateStatus(ctx, sourceID, domain.StatusFailed)
	return cause
}
