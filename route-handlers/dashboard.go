package routehandlers

import (
	"net/http"

	"github.com/fkanj70/Accelerated-Report/dashboard"
	"github.com/fkanj70/Accelerated-Report/webutil"
)

// DashboardHandler serves the developer dashboard view built from the
// poller's snapshots.
type DashboardHandler struct {
	Poller *dashboard.Poller
}

func NewDashboardHandler(poller *dashboard.Poller) *DashboardHandler {
	return &DashboardHandler{Poller: poller}
}

// HandleGetDashboard returns the latest snapshot: summary counts, the full
// report list, and any inline fetch error.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) error {
	webutil.RespondWithJSON(w, http.StatusOK, h.Poller.Snapshot())
	return nil
}

// HandleRefreshDashboard triggers a manual refresh and returns the updated
// snapshot. A failed fetch is reported inside the snapshot, not as an HTTP
// error; the poll loop is unaffected either way.
func (h *DashboardHandler) HandleRefreshDashboard(w http.ResponseWriter, r *http.Request) error {
	_ = h.Poller.Refresh(r.Context()) // error is surfaced inline on the snapshot
	webutil.RespondWithJSON(w, http.StatusOK, h.Poller.Snapshot())
	return nil
}
