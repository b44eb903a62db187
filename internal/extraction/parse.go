package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"rvu-tracker/internal/models"
)

// ParseItems decodes the model's JSON response. The response schema forces a
// JSON array, but models occasionally wrap output in markdown fences or
// surrounding prose, so parsing trims to the outermost array before
// unmarshalling.
func ParseItems(raw string) ([]models.ExtractedItem, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array in extraction response")
	}

	var items []models.ExtractedItem
	if err := json.Unmarshal([]byte(s[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	return items, nil
}
