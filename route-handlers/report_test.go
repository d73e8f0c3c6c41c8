package routehandlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fkanj70/Accelerated-Report/api"
	"github.com/fkanj70/Accelerated-Report/dashboard"
	"github.com/fkanj70/Accelerated-Report/datastore"
	"github.com/fkanj70/Accelerated-Report/delivery"
	"github.com/fkanj70/Accelerated-Report/models"
	rh "github.com/fkanj70/Accelerated-Report/route-handlers"
	"github.com/fkanj70/Accelerated-Report/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// agentFixture wires the full widget control surface against a fake
// report backend whose availability can be flipped per test.
type agentFixture struct {
	router      http.Handler
	backendDown *atomic.Bool
	chaos       *delivery.ChaosClient
}

func newAgentFixture(t *testing.T) *agentFixture {
	t.Helper()

	var backendDown atomic.Bool
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if backendDown.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		switch r.URL.Path {
		case "/reports":
			if r.Method == http.MethodPost {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"report_id": "abc123",
					"status":    "received",
				})
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"reports": []models.Report{{ID: "r1", Type: "crash"}},
				"count":   1,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(backend.Close)

	store, err := datastore.OpenInMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	queueRepo := datastore.NewQueueRepository(store)
	recentRepo := datastore.NewRecentRepository(store)
	attemptRepo := datastore.NewAttemptRepository(store)

	httpClient := delivery.NewHTTPClient(backend.URL, nil)
	chaos := delivery.NewChaosClient(httpClient, delivery.DefaultChaosConfig())
	service := delivery.NewSubmissionService(chaos, queueRepo, recentRepo, attemptRepo, models.PlatformWeb, "1.0.0")
	retryScheduler := scheduler.New(queueRepo, recentRepo, attemptRepo, chaos, nil, time.Hour, 10)
	poller := dashboard.New(backend.URL, nil, time.Hour)

	router := api.SetupRoutes(
		rh.NewReportHandler(service, queueRepo, recentRepo, attemptRepo),
		rh.NewChaosHandler(chaos),
		rh.NewDashboardHandler(poller),
		retryScheduler,
	)

	return &agentFixture{router: router, backendDown: &backendDown, chaos: chaos}
}

func (fx *agentFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

// TestSubmitReportReceived covers the direct-delivery happy path.
func TestSubmitReportReceived(t *testing.T) {
	fx := newAgentFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/reports", `{"type":"bug","message":"save button does nothing"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	payload := decode(t, rec)
	assert.Equal(t, "received", payload["status"])
	assert.Equal(t, "abc123", payload["report_id"])

	// The delivered report shows up in the recent history.
	rec = fx.do(t, http.MethodGet, "/api/reports/recent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])
}

// TestSubmitReportQueuedWhenBackendDown verifies the offline path: the
// report parks on the queue and the response says so.
func TestSubmitReportQueuedWhenBackendDown(t *testing.T) {
	fx := newAgentFixture(t)
	fx.backendDown.Store(true)

	rec := fx.do(t, http.MethodPost, "/api/reports", `{"type":"crash","message":"blank screen on launch"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	payload := decode(t, rec)
	assert.Equal(t, "queued", payload["status"])
	assert.Equal(t, true, payload["queued"])
	assert.EqualValues(t, 1, payload["queue_length"])

	rec = fx.do(t, http.MethodGet, "/api/queue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])

	// Backend recovers; a manual scheduler tick drains the head.
	fx.backendDown.Store(false)
	rec = fx.do(t, http.MethodPost, "/api/scheduler/tick", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodGet, "/api/queue", "")
	assert.EqualValues(t, 0, decode(t, rec)["count"])

	rec = fx.do(t, http.MethodGet, "/api/reports/recent", "")
	assert.EqualValues(t, 1, decode(t, rec)["count"])
}

// TestSubmitReportValidation verifies local validation rejections.
func TestSubmitReportValidation(t *testing.T) {
	fx := newAgentFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/reports", `{"type":"tantrum","message":"argh"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fx.do(t, http.MethodPost, "/api/reports", `{"type":"bug","message":"no"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = fx.do(t, http.MethodPost, "/api/reports", `{"type":"bug","message":"okay","platform":"toaster"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestQuickAction verifies one-tap submissions use the canned message.
func TestQuickAction(t *testing.T) {
	fx := newAgentFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/reports/quick/slow", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "abc123", decode(t, rec)["report_id"])

	rec = fx.do(t, http.MethodGet, "/api/reports/recent", "")
	payload := decode(t, rec)
	entries, ok := payload["recent"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "slow", entry["type"])
	assert.NotEmpty(t, entry["message"])

	rec = fx.do(t, http.MethodPost, "/api/reports/quick/tantrum", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestChaosToggleEndpoint verifies the chaos flag round-trips.
func TestChaosToggleEndpoint(t *testing.T) {
	fx := newAgentFixture(t)

	rec := fx.do(t, http.MethodGet, "/api/chaos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["enabled"])

	rec = fx.do(t, http.MethodPut, "/api/chaos", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["enabled"])
	assert.True(t, fx.chaos.Enabled())
}

// TestDashboardEndpoints verifies manual refresh populates the snapshot.
func TestDashboardEndpoints(t *testing.T) {
	fx := newAgentFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/dashboard/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decode(t, rec)
	summary, ok := payload["summary"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, summary["crash"])
	assert.EqualValues(t, 1, summary["total"])

	rec = fx.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["reports"])
}

// TestDashboardRefreshFailSoft verifies a backend outage surfaces as an
// inline error, not an HTTP failure.
func TestDashboardRefreshFailSoft(t *testing.T) {
	fx := newAgentFixture(t)
	fx.backendDown.Store(true)

	rec := fx.do(t, http.MethodPost, "/api/dashboard/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])
}

// TestHealthz verifies the health endpoint.
func TestHealthz(t *testing.T) {
	fx := newAgentFixture(t)

	rec := fx.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
