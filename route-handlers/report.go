package routehandlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fkanj70/Accelerated-Report/datastore"
	"github.com/fkanj70/Accelerated-Report/delivery"
	"github.com/fkanj70/Accelerated-Report/models"
	"github.com/fkanj70/Accelerated-Report/webutil"
	"github.com/go-chi/chi/v5"
)

// minMessageLength mirrors the backend's validation floor so obviously
// malformed reports are rejected locally instead of burning retry attempts.
const minMessageLength = 3

// attemptListLimit caps the attempt-journal listing.
const attemptListLimit = 50

type ReportHandler struct {
	Service     *delivery.SubmissionService
	QueueRepo   *datastore.QueueRepository
	RecentRepo  *datastore.RecentRepository
	AttemptRepo *datastore.AttemptRepository
}

func NewReportHandler(
	service *delivery.SubmissionService,
	queueRepo *datastore.QueueRepository,
	recentRepo *datastore.RecentRepository,
	attemptRepo *datastore.AttemptRepository,
) *ReportHandler {
	return &ReportHandler{
		Service:     service,
		QueueRepo:   queueRepo,
		RecentRepo:  recentRepo,
		AttemptRepo: attemptRepo,
	}
}

type submitReportRequest struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Platform   string `json:"platform,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`
}

// submitReportResponse is returned for both immediate and queued outcomes.
type submitReportResponse struct {
	Status      string `json:"status"` // "received" | "queued"
	Queued      bool   `json:"queued"`
	ReportID    string `json:"report_id,omitempty"`
	QueueLength int    `json:"queue_length,omitempty"`
	AIEnriched  bool   `json:"ai_enriched,omitempty"`
	Category    string `json:"category,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

// HandleSubmitReport accepts a free-text report from the widget form and
// runs it through the direct-submission path.
func (h *ReportHandler) HandleSubmitReport(w http.ResponseWriter, r *http.Request) error {
	var req submitReportRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	reportType, ok := models.IsValidReportType(req.Type)
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid type value. Must be one of: %s, %s, %s, %s",
			models.ReportTypeCrash, models.ReportTypeSlow, models.ReportTypeBug, models.ReportTypeSuggestion))
	}
	if len(req.Message) < minMessageLength {
		return webutil.ErrUnprocessableEntity(fmt.Sprintf("Message must be at least %d characters", minMessageLength))
	}

	var platform models.Platform
	if req.Platform != "" {
		platform, ok = models.IsValidPlatform(req.Platform)
		if !ok {
			return webutil.ErrBadRequest(fmt.Sprintf("Invalid platform value. Must be one of: %s, %s, %s",
				models.PlatformWeb, models.PlatformIOS, models.PlatformAndroid))
		}
	}

	report := models.QueuedReport{
		Type:       reportType,
		Message:    req.Message,
		Platform:   platform,
		Screenshot: req.Screenshot,
	}
	return h.submit(w, r, &report)
}

// HandleQuickAction submits a one-tap report with the canned message for
// the type in the URL, bypassing free-text entry.
func (h *ReportHandler) HandleQuickAction(w http.ResponseWriter, r *http.Request) error {
	typeParam := chi.URLParam(r, "type")
	reportType, ok := models.IsValidReportType(typeParam)
	if !ok {
		return webutil.ErrNotFound(fmt.Sprintf("No quick action for type %q", typeParam))
	}

	message, ok := models.QuickActionMessage(reportType)
	if !ok {
		return webutil.ErrNotFound(fmt.Sprintf("No quick action for type %q", typeParam))
	}

	report := models.QueuedReport{
		Type:    reportType,
		Message: message,
	}
	return h.submit(w, r, &report)
}

func (h *ReportHandler) submit(w http.ResponseWriter, r *http.Request, report *models.QueuedReport) error {
	result, err := h.Service.Submit(r.Context(), report)
	if err != nil {
		return webutil.ErrInternalServerWrap(fmt.Sprintf("failed to submit %s report", report.Type), err)
	}

	if result.Queued {
		webutil.RespondWithJSON(w, http.StatusAccepted, submitReportResponse{
			Status:      "queued",
			Queued:      true,
			QueueLength: result.QueueLength,
		})
		return nil
	}

	webutil.RespondWithJSON(w, http.StatusCreated, submitReportResponse{
		Status:     result.Receipt.Status,
		ReportID:   result.Receipt.ReportID,
		AIEnriched: result.Receipt.AIEnriched,
		Category:   result.Receipt.Category,
		Severity:   result.Receipt.Severity,
	})
	return nil
}

// HandleGetRecent returns the recent-submissions history, newest first.
func (h *ReportHandler) HandleGetRecent(w http.ResponseWriter, r *http.Request) error {
	recent, err := h.RecentRepo.List(r.Context())
	if err != nil {
		return fmt.Errorf("failed to list recent submissions: %w", err)
	}
	if recent == nil {
		recent = []models.RecentEntry{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"recent": recent,
		"count":  len(recent),
	})
	return nil
}

// HandleGetQueue returns the pending offline queue in FIFO order.
func (h *ReportHandler) HandleGetQueue(w http.ResponseWriter, r *http.Request) error {
	pending, err := h.QueueRepo.All(r.Context())
	if err != nil {
		return fmt.Errorf("failed to list queued reports: %w", err)
	}
	if pending == nil {
		pending = []models.QueuedReport{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"pending": pending,
		"count":   len(pending),
	})
	return nil
}

// HandleGetAttempts returns the recent delivery-attempt journal.
func (h *ReportHandler) HandleGetAttempts(w http.ResponseWriter, r *http.Request) error {
	attempts, err := h.AttemptRepo.ListRecent(r.Context(), attemptListLimit)
	if err != nil {
		return fmt.Errorf("failed to list delivery attempts: %w", err)
	}
	if attempts == nil {
		attempts = []models.DeliveryAttempt{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"attempts": attempts,
		"count":    len(attempts),
	})
	return nil
}
