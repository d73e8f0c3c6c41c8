package models

import "strings"

// ReportType defines the set of allowed feedback report categories.
type ReportType string

const (
	ReportTypeCrash      ReportType = "crash"
	ReportTypeSlow       ReportType = "slow"
	ReportTypeBug        ReportType = "bug"
	ReportTypeSuggestion ReportType = "suggestion"
)

// IsValidReportType checks if the provided string is a valid ReportType.
func IsValidReportType(typeStr string) (ReportType, bool) {
	rt := ReportType(strings.ToLower(typeStr))
	switch rt {
	case ReportTypeCrash, ReportTypeSlow, ReportTypeBug, ReportTypeSuggestion:
		return rt, true
	default:
		return "", false
	}
}

// ReportTypes returns all valid report types in display order.
func ReportTypes() []ReportType {
	return []ReportType{ReportTypeCrash, ReportTypeSlow, ReportTypeBug, ReportTypeSuggestion}
}

// Platform identifies the client environment a report originated from.
type Platform string

const (
	PlatformWeb     Platform = "web"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// IsValidPlatform checks if the provided string is a valid Platform.
func IsValidPlatform(platformStr string) (Platform, bool) {
	p := Platform(strings.ToLower(platformStr))
	switch p {
	case PlatformWeb, PlatformIOS, PlatformAndroid:
		return p, true
	default:
		return "", false
	}
}

// HelpfulResource is a developer-facing link attached to a report by the
// backend's enrichment pipeline. Treated as opaque by this client.
type HelpfulResource struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Votes   string `json:"votes,omitempty"`
	Answers string `json:"answers,omitempty"`
}

// Report is a stored report as returned by the backend's GET /reports.
// Enrichment fields are optional and backend-owned; created_at is kept as
// the backend's ISO-8601 string rather than re-parsed.
type Report struct {
	ID               string            `json:"id"`
	CreatedAt        string            `json:"created_at"`
	Type             string            `json:"type"`
	Message          string            `json:"message"`
	Platform         string            `json:"platform,omitempty"`
	AppVersion       string            `json:"app_version,omitempty"`
	Status           string            `json:"status,omitempty"`
	Summary          string            `json:"summary,omitempty"`
	Description      string            `json:"description,omitempty"`
	Category         string            `json:"category,omitempty"`
	Severity         string            `json:"severity,omitempty"`
	DeveloperAction  string            `json:"developer_action,omitempty"`
	Confidence       *float64          `json:"confidence,omitempty"`
	SimilarReports   string            `json:"similar_reports,omitempty"`
	HelpfulResources []HelpfulResource `json:"helpful_resources,omitempty"`
	SentryEventID    string            `json:"sentry_event_id,omitempty"`
	ScreenshotURL    string            `json:"screenshot_url,omitempty"`
}
