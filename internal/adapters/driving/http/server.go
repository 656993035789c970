// Package http is the boundary-only HTTP adapter (§1): SSE framing of
// retrieval checkpoints over POST /chat, plus a POST /ingest endpoint that
// pushes onto the ingestion queue, and health/ready/version probes. Auth,
// routing, and JSON marshaling live here; nothing about chunking,
// retrieval, or the RAG domain model does.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driving"
)

// Pinger is a simple health check interface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP boundary adapter.
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	log        *slog.Logger

	retrieval driving.RetrievalOrchestrator
	taskQueue driven.TaskQueue

	db    Pinger
	redis Pinger
}

// Config holds server configuration.
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates the HTTP server and registers its routes.
func NewServer(
	cfg Config,
	log *slog.Logger,
	auth *AuthMiddleware,
	retrieval driving.RetrievalOrchestrator,
	taskQueue driven.TaskQueue,
	db Pinger,
	redis Pinger, // can be nil
) *Server {
	s := &Server{
		router:    http.NewServeMux(),
		version:   cfg.Version,
		log:       log,
		retrieval: retrieval,
		taskQueue: taskQueue,
		db:        db,
		redis:     redis,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // /chat holds the connection open for the SSE stream
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes(auth)
	return s
}

func (s *Server) setupRoutes(auth *AuthMiddleware) {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	s.router.Handle("POST /chat", auth.Authenticate(http.HandlerFunc(s.handleChat)))
	s.router.Handle("POST /ingest", auth.Authenticate(http.HandlerFunc(s.handleIngest)))
}

// chatRequest is the POST /chat body (spec.md §6's HTTP surface).
type chatRequest struct {
	NotebookID         string                `json:"notebook_id"`
	AssistantMessageID string                `json:"assistant_message_id"`
	UserMessageID      string                `json:"user_message_id"`
	Content            string                `json:"content"`
	EncryptionType     domain.EncryptionType `json:"encryption_type"`
	EncryptionKey      string                `json:"encryption_key,omitempty"`
}

// handleChat answers a notebook question, streaming one `data: <status>`
// frame per retrieval checkpoint before closing with the final cited
// answer.
//
// @Summary     Ask a notebook question
// @Description streams retrieval checkpoints via server-sent events, closing with the cited answer
// @Accept      json
// @Produce     text/event-stream
// @Param       request body chatRequest true "chat request"
// @Success     200 {string} string "SSE stream"
// @Router      /chat [post]
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NotebookID == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "notebook_id and content are required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	onCheckpoint := func(checkpoint domain.RetrievalCheckpoint) {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", checkpoint); err != nil {
			return
		}
		flusher.Flush()
	}

	answer, err := s.retrieval.Answer(ctx, req.NotebookID, req.Content, onCheckpoint)
	if err != nil {
		if ctx.Err() != nil {
			// ClientDisconnected mid-stream: log and stop, nothing further
			// to write (§7 policy).
			s.log.Warn("client disconnected mid-stream", "notebook_id", req.NotebookID)
			return
		}
		s.log.Error("chat failed", "notebook_id", req.NotebookID, "error", err)
		fmt.Fprintf(w, "data: {\"failed\":true,\"error\":%q}\n\n", err.Error())
		flusher.Flush()
		return
	}

	payload, err := json.Marshal(answer)
	if err != nil {
		s.log.Error("marshal answer failed", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}

// ingestRequest is the POST /ingest body: it pushes a task onto the
// ingestion queue for the worker pool to pick up via blocking pop.
type ingestRequest struct {
	Type           domain.IngestionTaskType `json:"type"`
	ID             string                   `json:"id"`
	UserID         string                   `json:"user_id"`
	Base64         string                   `json:"base64,omitempty"`
	URL            string                   `json:"url,omitempty"`
	EncryptionType domain.EncryptionType    `json:"encryption_type"`
	EncryptionKey  string                   `json:"encryption_key,omitempty"`
}

// handleIngest enqueues a PDF or URL ingestion task.
//
// @Summary     Enqueue an ingestion task
// @Accept      json
// @Produce     json
// @Param       request body ingestRequest true "ingestion task"
// @Success     202 {object} map[string]string
// @Router      /ingest [post]
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" || (req.Type != domain.TaskTypePDF && req.Type != domain.TaskTypeURL) {
		writeError(w, http.StatusBadRequest, "id and a valid type are required")
		return
	}

	task := domain.IngestionTask{
		Type:           req.Type,
		ID:             req.ID,
		UserID:         req.UserID,
		Base64:         req.Base64,
		URL:            req.URL,
		EncryptionType: req.EncryptionType,
		EncryptionKey:  req.EncryptionKey,
	}
	if err := s.taskQueue.Push(r.Context(), task); err != nil {
		writeError(w, http.StatusServiceUnavailable, "queue unavailable")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": task.ID, "status": string(domain.StatusQueued)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
			return
		}
	}
	if s.redis != nil {
		if err := s.redis.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Start runs the HTTP server until an interrupt or SIGTERM, then shuts it
// down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("server stopped")
	return nil
}

// Stop shuts down the server using ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
