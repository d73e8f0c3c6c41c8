package scheduler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fkanj70/Accelerated-Report/datastore"
	"github.com/fkanj70/Accelerated-Report/delivery"
	"github.com/fkanj70/Accelerated-Report/models"
	"github.com/fkanj70/Accelerated-Report/webutil"
	"github.com/google/uuid"
)

const (
	// DefaultInterval between queue drain attempts.
	DefaultInterval = 5 * time.Second
	// DefaultMaxRetries is the retry cap per queued entry. An entry is
	// discarded as soon as its retry count would exceed this cap.
	DefaultMaxRetries = 10
)

// TickResult describes what a single scheduler tick did with the queue head.
type TickResult int

const (
	// TickIdle means the queue was empty and the tick was a no-op.
	TickIdle TickResult = iota
	// TickDelivered means the head entry was delivered and removed.
	TickDelivered
	// TickRetryScheduled means the attempt failed and the head entry was
	// persisted with an incremented retry count.
	TickRetryScheduled
	// TickDiscarded means the head entry exhausted its retries and was
	// dropped. This is a user-visible data-loss event.
	TickDiscarded
)

// RetryScheduler drains the offline report queue. Once per tick it attempts
// delivery of the head entry only; later entries wait their turn, preserving
// FIFO order and bounding in-flight attempts to exactly one.
type RetryScheduler struct {
	queueRepo   *datastore.QueueRepository
	recentRepo  *datastore.RecentRepository
	attemptRepo *datastore.AttemptRepository
	client      delivery.Client
	notifier    Notifier
	interval    time.Duration
	maxRetries  int

	// tickMu serializes ticks from the background loop and the manual
	// HTTP trigger, keeping in-flight attempts bounded to one.
	tickMu sync.Mutex

	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates a RetryScheduler. A zero interval or retry cap falls back to
// the defaults; a nil notifier falls back to log-based notifications.
func New(
	queueRepo *datastore.QueueRepository,
	recentRepo *datastore.RecentRepository,
	attemptRepo *datastore.AttemptRepository,
	client delivery.Client,
	notifier Notifier,
	interval time.Duration,
	maxRetries int,
) *RetryScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &RetryScheduler{
		queueRepo:   queueRepo,
		recentRepo:  recentRepo,
		attemptRepo: attemptRepo,
		client:      client,
		notifier:    notifier,
		interval:    interval,
		maxRetries:  maxRetries,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start launches the tick loop. Subsequent calls are no-ops.
func (s *RetryScheduler) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run()
	})
}

// Stop halts the tick loop and waits for the current tick to finish.
// Safe to call multiple times, including when the loop never started.
func (s *RetryScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	if s.started.Load() {
		<-s.doneCh
	}
}

func (s *RetryScheduler) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("INFO (RetryScheduler): Started, interval=%s, max_retries=%d", s.interval, s.maxRetries)
	for {
		select {
		case <-s.stopCh:
			log.Println("INFO (RetryScheduler): Stopped")
			return
		case <-ticker.C:
			if _, err := s.Tick(context.Background()); err != nil {
				log.Printf("ERROR (RetryScheduler): Tick failed: %v", err)
			}
		}
	}
}

// HandleTick is an HTTP handler that triggers a single scheduler tick.
// Used to drain the queue manually during demos.
func (s *RetryScheduler) HandleTick(w http.ResponseWriter, r *http.Request) {
	result, err := s.Tick(r.Context())
	if err != nil {
		log.Printf("ERROR (RetryScheduler): Manual tick failed: %v", err)
		webutil.RespondWithError(w, http.StatusInternalServerError, "scheduler tick failed")
		return
	}

	w.WriteHeader(http.StatusOK)
	switch result {
	case TickIdle:
		fmt.Fprint(w, "OK: queue empty")
	case TickDelivered:
		fmt.Fprint(w, "OK: head delivered")
	case TickRetryScheduled:
		fmt.Fprint(w, "OK: head failed, retry scheduled")
	case TickDiscarded:
		fmt.Fprint(w, "OK: head discarded after retry exhaustion")
	}
}

// Tick runs a single scheduler cycle: attempt delivery of the queue head,
// then remove it on success, persist an incremented retry count on failure,
// or discard it once the count would exceed the cap. An empty queue is a
// no-op. The returned error covers storage faults only; delivery failures
// are absorbed into queue bookkeeping.
func (s *RetryScheduler) Tick(ctx context.Context) (TickResult, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	head, err := s.queueRepo.PeekHead(ctx)
	if err != nil {
		return TickIdle, fmt.Errorf("failed to read queue head: %w", err)
	}
	if head == nil {
		return TickIdle, nil
	}

	receipt, deliverErr := s.client.Submit(ctx, head)
	s.recordAttempt(ctx, head, deliverErr)

	if deliverErr == nil {
		return s.resolveDelivered(ctx, head, receipt)
	}

	if head.RetryCount+1 > s.maxRetries {
		return s.resolveDiscarded(ctx, head, deliverErr)
	}

	updated := *head
	updated.RetryCount++
	if err := s.queueRepo.ReplaceHead(ctx, &updated); err != nil {
		return TickIdle, fmt.Errorf("failed to persist retry count: %w", err)
	}
	log.Printf("INFO (RetryScheduler): Delivery of %s report failed (retry %d/%d): %v",
		head.Type, updated.RetryCount, s.maxRetries, deliverErr)
	return TickRetryScheduled, nil
}

func (s *RetryScheduler) resolveDelivered(ctx context.Context, head *models.QueuedReport, receipt *models.Receipt) (TickResult, error) {
	if err := s.queueRepo.RemoveHead(ctx); err != nil {
		return TickIdle, fmt.Errorf("failed to remove delivered head: %w", err)
	}

	entry := models.RecentEntry{
		ID:        receipt.ReportID,
		Type:      head.Type,
		Message:   head.Message,
		Timestamp: time.Now().UTC(),
	}
	if err := s.recentRepo.Add(ctx, &entry); err != nil {
		return TickDelivered, fmt.Errorf("failed to record delivered report %s: %w", receipt.ReportID, err)
	}

	log.Printf("INFO (RetryScheduler): Delivered queued %s report, report_id=%s", head.Type, receipt.ReportID)
	s.notifier.ReportDelivered(&entry)
	return TickDelivered, nil
}

func (s *RetryScheduler) resolveDiscarded(ctx context.Context, head *models.QueuedReport, deliverErr error) (TickResult, error) {
	if err := s.queueRepo.RemoveHead(ctx); err != nil {
		return TickIdle, fmt.Errorf("failed to remove exhausted head: %w", err)
	}

	log.Printf("WARN (RetryScheduler): Discarding %s report after %d retries: %v",
		head.Type, s.maxRetries, deliverErr)
	s.notifier.ReportDiscarded(head)
	return TickDiscarded, nil
}

func (s *RetryScheduler) recordAttempt(ctx context.Context, head *models.QueuedReport, deliverErr error) {
	attempt := models.DeliveryAttempt{
		ID:         uuid.NewString(),
		ReportType: head.Type,
		Message:    head.Message,
		RetryCount: head.RetryCount,
		Status:     models.AttemptStatusDelivered,
		CreatedAt:  time.Now().UTC(),
	}
	if deliverErr != nil {
		attempt.Status = models.AttemptStatusFailed
		attempt.ErrorMessage = deliverErr.Error()
	}
	if err := s.attemptRepo.Record(ctx, &attempt); err != nil {
		log.Printf("WARN (RetryScheduler): Failed to journal delivery attempt: %v", err)
	}
}
