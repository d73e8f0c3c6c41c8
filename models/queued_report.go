package models

import "time"

// QueuedReport is a pending submission awaiting delivery. Entries live at
// the tail of the offline queue and are drained head-first by the retry
// scheduler.
type QueuedReport struct {
	Type       ReportType `json:"type"`
	Message    string     `json:"message"`
	Platform   Platform   `json:"platform"`
	AppVersion string     `json:"app_version"`
	Screenshot string     `json:"screenshot,omitempty"` // base64-encoded image data
	QueuedAt   time.Time  `json:"queued_at"`
	RetryCount int        `json:"retry_count"`
}
