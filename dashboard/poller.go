package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fkanj70/Accelerated-Report/models"
)

// DefaultInterval between automatic dashboard refreshes.
const DefaultInterval = 10 * time.Second

// Summary aggregates report counts by type. Unrecognized types are excluded
// from the per-type counts but still included in Total.
type Summary struct {
	Crash      int `json:"crash"`
	Slow       int `json:"slow"`
	Bug        int `json:"bug"`
	Suggestion int `json:"suggestion"`
	Total      int `json:"total"`
}

// Snapshot is the poller's most recent view of the backend's reports.
// When a refresh fails, Error carries the inline failure message and the
// previous reports are kept so the dashboard degrades instead of blanking.
type Snapshot struct {
	Reports   []models.Report `json:"reports"`
	Summary   Summary         `json:"summary"`
	FetchedAt time.Time       `json:"fetched_at"`
	Error     string          `json:"error,omitempty"`
}

// Poller periodically fetches the full report collection from the backend.
// It is a read-only consumer: a failed fetch never touches the offline
// queue or the retry scheduler, and the next tick retries independently
// with no backoff.
type Poller struct {
	baseURL    string
	httpClient *http.Client
	interval   time.Duration

	mu       sync.RWMutex
	snapshot Snapshot

	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates a Poller against the backend at baseURL. A nil httpClient
// falls back to http.DefaultClient; a zero interval falls back to the
// default.
func New(baseURL string, httpClient *http.Client, interval time.Duration) *Poller {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		baseURL:    baseURL,
		httpClient: httpClient,
		interval:   interval,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the poll loop with an immediate first refresh.
// Subsequent calls are no-ops.
func (p *Poller) Start() {
	p.startOnce.Do(func() {
		p.started.Store(true)
		go p.run()
	})
}

// Stop halts the poll loop and waits for it to finish. Safe to call
// multiple times, including when the loop never started.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	if p.started.Load() {
		<-p.doneCh
	}
}

func (p *Poller) run() {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("INFO (DashboardPoller): Started, interval=%s", p.interval)
	p.refreshAndLog()
	for {
		select {
		case <-p.stopCh:
			log.Println("INFO (DashboardPoller): Stopped")
			return
		case <-ticker.C:
			p.refreshAndLog()
		}
	}
}

func (p *Poller) refreshAndLog() {
	if err := p.Refresh(context.Background()); err != nil {
		log.Printf("WARN (DashboardPoller): Refresh failed: %v", err)
	}
}

// Snapshot returns the last fetched dashboard state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// listResponse matches the backend's GET /reports payload.
type listResponse struct {
	Reports []models.Report `json:"reports"`
	Count   int             `json:"count"`
}

// Refresh fetches the report collection once and updates the snapshot.
// On failure the previous reports are kept and the error is stored inline.
func (p *Poller) Refresh(ctx context.Context) error {
	reports, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot.FetchedAt = time.Now().UTC()
	if err != nil {
		p.snapshot.Error = err.Error()
		return err
	}
	p.snapshot.Reports = reports
	p.snapshot.Summary = Summarize(reports)
	p.snapshot.Error = ""
	return nil
}

func (p *Poller) fetch(ctx context.Context) ([]models.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/reports", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode report list: %w", err)
	}
	return payload.Reports, nil
}

// Summarize computes per-type counts across the report collection.
func Summarize(reports []models.Report) Summary {
	summary := Summary{Total: len(reports)}
	for _, report := range reports {
		switch models.ReportType(report.Type) {
		case models.ReportTypeCrash:
			summary.Crash++
		case models.ReportTypeSlow:
			summary.Slow++
		case models.ReportTypeBug:
			summary.Bug++
		case models.ReportTypeSuggestion:
			summary.Suggestion++
		}
	}
	return summary
}
