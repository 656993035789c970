package inference

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

var _ driven.Captioner = (*CaptionerClient)(nil)

// CaptionerClient describes extracted images (§4.5).
type CaptionerClient struct {
	c *client
}

// NewCaptionerClient returns a CaptionerClient configured by cfg.
func NewCaptionerClient(cfg Config) *CaptionerClient {
	return &CaptionerClient{c: newClient(cfg)}
}

type captionRequest struct {
	Images []captionImage `json:"images"`
}

type captionImage struct {
	ImageID     string `json:"image_id"`
	BytesBase64 string `json:"bytes_base64"`
}

type captionResponse struct {
	Captions []string `json:"captions"`
}

// Caption returns one caption per input image, in the same order. A
// response whose length doesn't match the input is a hard failure (§9):
// there is no partial-credit zip, a captioner that drops or duplicates an
// entry must fail the whole ingestion rather than silently misattribute
// captions to the wrong image.
func (c *CaptionerClient) Caption(ctx context.Context, images []domain.Image) ([]string, error) {
	req := captionRequest{Images: make([]captionImage, len(images))}
	for i, img := range images {
		req.Images[i] = captionImage{
			ImageID:     img.ImageID,
			BytesBase64: base64.StdEncoding.EncodeToString(img.Bytes),
		}
	}

	var resp captionResponse
	if err := c.c.post(ctx, "/caption", req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Captions) != len(images) {
		return nil, fmt.Errorf("%w: captioner returned %d captions for %d images",
			domain.ErrRemoteInferenceFailure, len(resp.Captions), len(images))
	}

	return resp.Captions, nil
}

func (c *CaptionerClient) HealthCheck(ctx context.Context) error {
	return c.c.healthCheck(ctx)
}
