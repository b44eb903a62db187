package models

// ReportMeta is the free-text header block stamped onto exported reports.
type ReportMeta struct {
	Physician string `json:"physician"`
	Group     string `json:"group"`
	Hospital  string `json:"hospital"`
}

// Summary holds the aggregate figures shown on the dashboard cards. It is
// derived data, recomputed on every state change.
type Summary struct {
	TotalRVU      float64 `json:"total_rvu"`
	TotalEarnings float64 `json:"total_earnings"`
	StudyCount    int     `json:"study_count"`
}
