package models

import "time"

// MaxRecentEntries bounds the recent-submissions history. Inserting a
// sixth entry evicts the oldest.
const MaxRecentEntries = 5

// RecentEntry records a successfully delivered report for user-facing
// confirmation history. Timestamp is the delivery time, not the original
// submission time.
type RecentEntry struct {
	ID        string     `json:"id"`
	Type      ReportType `json:"type"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
}
