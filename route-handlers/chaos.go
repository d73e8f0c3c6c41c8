package routehandlers

import (
	"encoding/json"
	"net/http"

	"github.com/fkanj70/Accelerated-Report/delivery"
	"github.com/fkanj70/Accelerated-Report/webutil"
)

// ChaosHandler exposes the chaos-mode toggle, the widget's switch for
// simulating network instability.
type ChaosHandler struct {
	Chaos *delivery.ChaosClient
}

func NewChaosHandler(chaos *delivery.ChaosClient) *ChaosHandler {
	return &ChaosHandler{Chaos: chaos}
}

type chaosState struct {
	Enabled bool `json:"enabled"`
}

// HandleGetChaos reports whether chaos mode is active.
func (h *ChaosHandler) HandleGetChaos(w http.ResponseWriter, r *http.Request) error {
	webutil.RespondWithJSON(w, http.StatusOK, chaosState{Enabled: h.Chaos.Enabled()})
	return nil
}

// HandleSetChaos toggles chaos mode.
func (h *ChaosHandler) HandleSetChaos(w http.ResponseWriter, r *http.Request) error {
	var req chaosState
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	h.Chaos.SetEnabled(req.Enabled)
	webutil.RespondWithJSON(w, http.StatusOK, chaosState{Enabled: h.Chaos.Enabled()})
	return nil
}
