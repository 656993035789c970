package chunker

import (
	"fmt"
	"strings"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// RewriteImageReferences replaces every `![](imageId)` reference in
// markdown with an `<img>` tag carrying the uploaded blob path and the
// generated caption as alt text (§4.5). captions must be in the same
// order as images (the captioner's strict-zip contract, §9). An image
// with no caption at its index gets an empty alt; extra captions are
// ignored.
func RewriteImageReferences(markdown string, images []domain.Image, captions []string, userID string) string {
	for i, img := range images {
		caption := ""
		if i < len(captions) {
			caption = captions[i]
		}
		path := fmt.Sprintf("%s/%s.png", userID, img.ImageID)
		tag := fmt.Sprintf(`<img src="%s" alt="%s"/>`, path, escapeAttr(caption))
		reference := fmt.Sprintf("![](%s)", img.ImageID)
		markdown = strings.ReplaceAll(markdown, reference, tag)
	}
	return markdown
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
