package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayusman/taala/internal/cycle"
	"github.com/ayusman/taala/internal/store"
)

// DetectorControl is the live reconfiguration surface the settings API
// drives. The running capture session implements it by delegating to its
// boundary detector; a batch-only server may leave it nil.
type DetectorControl interface {
	SetThresholds(high, low float64)
	SetMinDuration(seconds float64)
	DetectorConfig() cycle.Config
}

// SettingsHandler handles HTTP requests for detector settings.
type SettingsHandler struct {
	store   *store.Store
	control DetectorControl
}

// NewSettingsHandler creates a new SettingsHandler. control may be nil.
func NewSettingsHandler(s *store.Store, control DetectorControl) *SettingsHandler {
	return &SettingsHandler{store: s, control: control}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type settingsResponse struct {
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	MinDuration  float64 `json:"min_duration"`
	DrawSkeleton bool    `json:"draw_skeleton"`
}

type updateSettingsRequest struct {
	High         *float64 `json:"high"`
	Low          *float64 `json:"low"`
	MinDuration  *float64 `json:"min_duration"`
	DrawSkeleton *bool    `json:"draw_skeleton"`
}

// current resolves the effective detector configuration: the running
// session's when one exists, otherwise the persisted values over defaults.
func (h *SettingsHandler) current() settingsResponse {
	defaults := cycle.DefaultConfig()
	resp := settingsResponse{
		High:        h.store.Settings().GetFloat(store.SettingHighThreshold, defaults.High),
		Low:         h.store.Settings().GetFloat(store.SettingLowThreshold, defaults.Low),
		MinDuration: h.store.Settings().GetFloat(store.SettingMinDuration, defaults.MinDuration),
	}
	resp.DrawSkeleton = h.store.Settings().GetBool(store.SettingDrawSkeleton, true)

	if h.control != nil {
		cfg := h.control.DetectorConfig()
		resp.High = cfg.High
		resp.Low = cfg.Low
		resp.MinDuration = cfg.MinDuration
	}

	return resp
}

// get handles GET /api/settings.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.current())
}

// update handles PUT /api/settings. An invalid threshold pair is not an
// error: the previous configuration stays in effect and is returned, so a
// live session always keeps usable thresholds.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	current := h.current()

	high := current.High
	low := current.Low
	if req.High != nil {
		high = *req.High
	}
	if req.Low != nil {
		low = *req.Low
	}

	if low < high {
		if h.control != nil {
			h.control.SetThresholds(high, low)
		}
		h.store.Settings().SetFloat(store.SettingHighThreshold, high)
		h.store.Settings().SetFloat(store.SettingLowThreshold, low)
	}

	if req.MinDuration != nil {
		minDuration := *req.MinDuration
		if minDuration < 0 {
			minDuration = 0
		}
		if h.control != nil {
			h.control.SetMinDuration(minDuration)
		}
		h.store.Settings().SetFloat(store.SettingMinDuration, minDuration)
	}

	if req.DrawSkeleton != nil {
		h.store.Settings().Set(store.SettingDrawSkeleton, strconv.FormatBool(*req.DrawSkeleton))
	}

	writeJSON(w, http.StatusOK, h.current())
}
