package models

// Receipt is the backend's response to an accepted report submission.
// The enrichment fields are populated only when the backend has AI
// analysis enabled.
type Receipt struct {
	ReportID         string            `json:"report_id"`
	Status           string            `json:"status"`
	AIEnriched       bool              `json:"ai_enriched"`
	Category         string            `json:"category,omitempty"`
	Severity         string            `json:"severity,omitempty"`
	SimilarCount     int               `json:"similar_count"`
	HelpfulResources []HelpfulResource `json:"helpful_resources,omitempty"`
}
