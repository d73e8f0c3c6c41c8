package delivery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fkanj70/Accelerated-Report/datastore"
	"github.com/fkanj70/Accelerated-Report/models"
	"github.com/google/uuid"
)

// SubmissionService orchestrates the direct submission path: one attempt
// through the configured Client, recording the outcome in the attempt
// journal, then either appending to the recent-submissions history or
// parking the report on the offline queue for the retry scheduler.
//
// Delivery failures never propagate to the caller; they always become a
// queue mutation. Only storage faults surface as errors.
type SubmissionService struct {
	client          Client
	queueRepo       *datastore.QueueRepository
	recentRepo      *datastore.RecentRepository
	attemptRepo     *datastore.AttemptRepository
	defaultPlatform models.Platform
	appVersion      string
}

func NewSubmissionService(
	client Client,
	queueRepo *datastore.QueueRepository,
	recentRepo *datastore.RecentRepository,
	attemptRepo *datastore.AttemptRepository,
	defaultPlatform models.Platform,
	appVersion string,
) *SubmissionService {
	return &SubmissionService{
		client:          client,
		queueRepo:       queueRepo,
		recentRepo:      recentRepo,
		attemptRepo:     attemptRepo,
		defaultPlatform: defaultPlatform,
		appVersion:      appVersion,
	}
}

// SubmitResult is the outcome of a direct submission attempt.
type SubmitResult struct {
	// Receipt is set when the backend accepted the report immediately.
	Receipt *models.Receipt
	// Queued is true when the attempt failed and the report was parked
	// on the offline queue.
	Queued bool
	// QueueLength is the queue size after a Queued outcome.
	QueueLength int
}

// Submit attempts immediate delivery of the report, queueing it on failure.
func (s *SubmissionService) Submit(ctx context.Context, report *models.QueuedReport) (*SubmitResult, error) {
	if report == nil {
		return nil, errors.New("report must not be nil")
	}
	if report.Platform == "" {
		report.Platform = s.defaultPlatform
	}
	if report.AppVersion == "" {
		report.AppVersion = s.appVersion
	}

	receipt, deliverErr := s.client.Submit(ctx, report)
	s.recordAttempt(ctx, report, deliverErr)

	if deliverErr != nil {
		log.Printf("WARN (SubmissionService): Direct delivery of %s report failed, queueing for retry: %v",
			report.Type, deliverErr)
		if err := s.queueRepo.Enqueue(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to queue report after delivery failure: %w", err)
		}
		length, err := s.queueRepo.Len(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read queue length: %w", err)
		}
		return &SubmitResult{Queued: true, QueueLength: length}, nil
	}

	entry := models.RecentEntry{
		ID:        receipt.ReportID,
		Type:      report.Type,
		Message:   report.Message,
		Timestamp: time.Now().UTC(),
	}
	if err := s.recentRepo.Add(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to record delivered report %s: %w", receipt.ReportID, err)
	}

	log.Printf("INFO (SubmissionService): Delivered %s report directly, report_id=%s", report.Type, receipt.ReportID)
	return &SubmitResult{Receipt: receipt}, nil
}

// recordAttempt journals the attempt outcome. Journal faults are logged
// and swallowed, matching the queue's best-effort bookkeeping.
func (s *SubmissionService) recordAttempt(ctx context.Context, report *models.QueuedReport, deliverErr error) {
	attempt := models.DeliveryAttempt{
		ID:         uuid.NewString(),
		ReportType: report.Type,
		Message:    report.Message,
		RetryCount: report.RetryCount,
		Status:     models.AttemptStatusDelivered,
		CreatedAt:  time.Now().UTC(),
	}
	if deliverErr != nil {
		attempt.Status = models.AttemptStatusFailed
		attempt.ErrorMessage = deliverErr.Error()
	}
	if err := s.attemptRepo.Record(ctx, &attempt); err != nil {
		log.Printf("WARN (SubmissionService): Failed to journal delivery attempt: %v", err)
	}
}
