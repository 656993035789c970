// Package inference implements the remote HTTP clients for the five
// inference services the ingestion and retrieval pipelines call out to:
// parser, captioner, embedder, reranker, and generator (§6). Each is a
// thin JSON-over-HTTP RPC client, grounded on the teacher's Vespa search
// client's request/response/health-check shape and generalized to five
// independent base URLs instead of one.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// Config configures a single remote inference client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a Config pointed at baseURL with a 30s timeout.
func DefaultConfig(baseURL string) Config {
	return Config{BaseURL: baseURL, Timeout: 30 * time.Second}
}

// client is the shared HTTP transport every inference client wraps.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(cfg Config) *client {
	return &client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// post marshals body, POSTs it to path, and unmarshals the response into
// out. Any failure is wrapped in domain.ErrRemoteInferenceFailure.
func (c *client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", domain.ErrRemoteInferenceFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrRemoteInferenceFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteInferenceFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrRemoteInferenceFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d: %s", domain.ErrRemoteInferenceFailure, path, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: unmarshal response: %v", domain.ErrRemoteInferenceFailure, err)
	}
	return nil
}

// healthCheck pings the service's health endpoint.
func (c *client) healthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: build health request: %v", domain.ErrRemoteInferenceFailure, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteInferenceFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", domain.ErrRemoteInferenceFailure, resp.StatusCode)
	}
	return nil
}
