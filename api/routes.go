package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/fkanj70/Accelerated-Report/route-handlers"
	"github.com/fkanj70/Accelerated-Report/scheduler"
	"github.com/fkanj70/Accelerated-Report/webutil"
)

const (
	apiBasePath       = "/api"
	reportsBasePath   = "/reports"
	queueBasePath     = "/queue"
	attemptsBasePath  = "/attempts"
	chaosBasePath     = "/chaos"
	dashboardBasePath = "/dashboard"
	schedulerBasePath = "/scheduler"
)

const (
	quickSubPath   = "/quick/{type}"
	recentSubPath  = "/recent"
	refreshSubPath = "/refresh"
	tickSubPath    = "/tick"
)

func SetupRoutes(
	reportHandler *rh.ReportHandler,
	chaosHandler *rh.ChaosHandler,
	dashboardHandler *rh.DashboardHandler,
	retryScheduler *scheduler.RetryScheduler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                                                 // Log every request
	r.Use(middleware.Recoverer)                                              // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second))                              // Set a timeout context for requests
	r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8)) // Default Content-Type

	r.Route(apiBasePath, func(r chi.Router) {
		configureReportRoutes(r, reportHandler)
		configureChaosRoutes(r, chaosHandler)
		configureDashboardRoutes(r, dashboardHandler)

		// Manual queue drain for demos; the background loop ticks on its own.
		r.Post(schedulerBasePath+tickSubPath, retryScheduler.HandleTick)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// --- Report Routes ---
func configureReportRoutes(r chi.Router, handler *rh.ReportHandler) {
	r.Route(reportsBasePath, func(r chi.Router) {
		r.Post("/", webutil.MakeHandler(handler.HandleSubmitReport))
		r.Post(quickSubPath, webutil.MakeHandler(handler.HandleQuickAction)) // POST /reports/quick/{type}
		r.Get(recentSubPath, webutil.MakeHandler(handler.HandleGetRecent))   // GET /reports/recent
	})

	r.Get(queueBasePath, webutil.MakeHandler(handler.HandleGetQueue))
	r.Get(attemptsBasePath, webutil.MakeHandler(handler.HandleGetAttempts))
}

// --- Chaos Mode Routes ---
func configureChaosRoutes(r chi.Router, handler *rh.ChaosHandler) {
	r.Route(chaosBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetChaos))
		r.Put("/", webutil.MakeHandler(handler.HandleSetChaos))
	})
}

// --- Dashboard Routes ---
func configureDashboardRoutes(r chi.Router, handler *rh.DashboardHandler) {
	r.Route(dashboardBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetDashboard))
		r.Post(refreshSubPath, webutil.MakeHandler(handler.HandleRefreshDashboard)) // POST /dashboard/refresh
	})
}

// --- Utility Functions ---

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}
