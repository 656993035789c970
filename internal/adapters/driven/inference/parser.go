package inference

import (
	"context"
	"encoding/base64"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

var _ driven.Parser = (*ParserClient)(nil)

// ParserClient parses raw document bytes into markdown plus extracted
// images (§4.4/§4.5).
type ParserClient struct {
	c *client
}

// NewParserClient returns a ParserClient configured by cfg.
func NewParserClient(cfg Config) *ParserClient {
	return &ParserClient{c: newClient(cfg)}
}

type parseRequest struct {
	ContentBase64 string `json:"content_base64"`
	ContentType   string `json:"content_type"`
}

type parseResponse struct {
	Markdown string `json:"markdown"`
	Images   []struct {
		ImageID     string `json:"image_id"`
		BytesBase64 string `json:"bytes_base64"`
	} `json:"images"`
}

func (p *ParserClient) Parse(ctx context.Context, content []byte, contentType string) (string, []domain.Image, error) {
	var resp parseResponse
	err := p.c.post(ctx, "/parse", parseRequest{
		ContentBase64: base64.StdEncoding.EncodeToString(content),
		ContentType:   contentType,
	}, &resp)
	if err != nil {
		return "", nil, err
	}

	images := make([]domain.Image, 0, len(resp.Images))
	for _, img := range resp.Images {
		bytes, decErr := base64.StdEncoding.DecodeString(img.BytesBase64)
		if decErr != nil {
			return "", nil, decErr
		}
		images = append(images, domain.Image{ImageID: img.ImageID, Bytes: bytes})
	}

	return resp.Markdown, images, nil
}

func (p *ParserClient) HealthCheck(ctx context.Context) error {
	return p.c.healthCheck(ctx)
}
