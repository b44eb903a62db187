package models

// Procedure is one entry in the reference procedure catalog. The catalog is
// immutable after startup and its order is significant: scoring ties during
// matching resolve to the earliest entry.
type Procedure struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	RVU      float64 `json:"rvu"`
	Category string  `json:"category"`
}
