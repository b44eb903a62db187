package extraction

import (
	"context"
	"fmt"
	"os"

	"rvu-tracker/internal/models"
)

// FixtureExtractor replays a recorded extraction response. It exists so the
// matching pipeline and the handlers can be exercised without the live
// service.
type FixtureExtractor struct {
	Items []models.ExtractedItem
	Err   error
}

func (f *FixtureExtractor) Extract(context.Context, string, []byte, string) ([]models.ExtractedItem, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Items, nil
}

// LoadFixture builds a FixtureExtractor from a recorded raw model response on
// disk.
func LoadFixture(path string) (*FixtureExtractor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	items, err := ParseItems(string(raw))
	if err != nil {
		return nil, err
	}
	return &FixtureExtractor{Items: items}, nil
}
