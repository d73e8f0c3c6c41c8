package models

import "time"

// AttemptStatus defines the terminal outcome of a single delivery attempt.
type AttemptStatus string

const (
	AttemptStatusDelivered AttemptStatus = "delivered"
	AttemptStatusFailed    AttemptStatus = "failed"
)

// DeliveryAttempt represents one network submission attempt for a report,
// logging its outcome and any potential errors. Attempts are journaled for
// both direct submissions and scheduler retries.
type DeliveryAttempt struct {
	ID           string        `json:"id"`
	ReportType   ReportType    `json:"report_type"`
	Message      string        `json:"message"`
	RetryCount   int           `json:"retry_count"`
	Status       AttemptStatus `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
