// Package extraction sends a worklist image to a hosted vision model and
// returns the structured procedure candidates it reads off the screenshot.
// The live implementation targets Gemini on Vertex AI; callers hold the
// Extractor capability so the matching core never touches the service.
package extraction

import (
	"context"

	"rvu-tracker/internal/models"
)

// Extractor submits one worklist image plus the textual reference catalog and
// returns extraction candidates. A failed call degrades to an empty batch at
// the call site; there is no retry policy.
type Extractor interface {
	Extract(ctx context.Context, mimeType string, image []byte, reference string) ([]models.ExtractedItem, error)
}

// Disabled is the stand-in used when no extraction credential is configured.
// The misconfiguration is reported once at startup; every call then
// short-circuits to an empty batch.
type Disabled struct{}

func (Disabled) Extract(context.Context, string, []byte, string) ([]models.ExtractedItem, error) {
	return nil, nil
}
