package models

// ExtractedItem is one procedure candidate returned by the vision extraction
// service, before it has been reconciled against the catalog.
type ExtractedItem struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	OriginalText string  `json:"original_text"`
	Confidence   float64 `json:"confidence"`
}
