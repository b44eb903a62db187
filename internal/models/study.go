package models

// ScannedStudy is one matched line item on the worklist. Created by the
// matching step, mutated only by deletion.
type ScannedStudy struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	RVU          float64 `json:"rvu"`
	Quantity     int     `json:"quantity"`
	Confidence   float64 `json:"confidence"`
	OriginalText string  `json:"original_text,omitempty"`
}

// TotalRVU returns the RVU weight scaled by quantity.
func (s ScannedStudy) TotalRVU() float64 {
	return s.RVU * float64(s.Quantity)
}
