package scheduler

import (
	"log"

	"github.com/fkanj70/Accelerated-Report/models"
)

// Notifier receives user-facing delivery lifecycle events from the retry
// scheduler.
type Notifier interface {
	// ReportDelivered fires when a queued report is finally delivered.
	ReportDelivered(entry *models.RecentEntry)
	// ReportDiscarded fires when a queued report exhausts its retries
	// and is dropped without delivery.
	ReportDiscarded(report *models.QueuedReport)
}

// LogNotifier writes notifications to the process log. It is the default
// when no other notifier is configured.
type LogNotifier struct{}

func (LogNotifier) ReportDelivered(entry *models.RecentEntry) {
	log.Printf("INFO (Notifier): Your %s report was delivered (id %s)", entry.Type, entry.ID)
}

func (LogNotifier) ReportDiscarded(report *models.QueuedReport) {
	log.Printf("WARN (Notifier): Your %s report could not be delivered and was discarded: %q",
		report.Type, report.Message)
}
