package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/taala/internal/cycle"
	"github.com/ayusman/taala/internal/store"
)

// CyclesHandler handles HTTP requests for an analysis's cycle timeline.
type CyclesHandler struct {
	store *store.Store
}

// NewCyclesHandler creates a new CyclesHandler with the given store.
func NewCyclesHandler(s *store.Store) *CyclesHandler {
	return &CyclesHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/analyses/{id}/cycles
func (h *CyclesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[1] != "cycles" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	analysisID := parts[0]

	switch r.Method {
	case http.MethodGet:
		h.list(w, r, analysisID)
	case http.MethodPost:
		h.upload(w, r, analysisID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type candidateCycle struct {
	Start      float64         `json:"start"`
	End        float64         `json:"end"`
	Confidence float64         `json:"confidence"`
	Keypoints  json.RawMessage `json:"keypoints,omitempty"`
}

type uploadCyclesRequest struct {
	Cycles  []candidateCycle `json:"cycles"`
	Options struct {
		SessionStart     *float64 `json:"session_start"`
		ClampNonPositive bool     `json:"clamp_non_positive"`
	} `json:"options"`
}

type cycleResponse struct {
	ID         string          `json:"id"`
	Seq        int             `json:"seq"`
	Start      float64         `json:"start"`
	End        float64         `json:"end"`
	Duration   float64         `json:"duration"`
	Confidence float64         `json:"confidence"`
	Keypoints  json.RawMessage `json:"keypoints,omitempty"`
}

type listCyclesResponse struct {
	AnalysisID string          `json:"analysis_id"`
	Cycles     []cycleResponse `json:"cycles"`
}

// list handles GET /api/analyses/{id}/cycles.
func (h *CyclesHandler) list(w http.ResponseWriter, r *http.Request, analysisID string) {
	if _, err := h.store.Analyses().GetByID(analysisID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get analysis")
		return
	}

	cycles, err := h.store.Cycles().GetByAnalysisID(analysisID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list cycles")
		return
	}

	response := listCyclesResponse{
		AnalysisID: analysisID,
		Cycles:     make([]cycleResponse, 0, len(cycles)),
	}
	for _, c := range cycles {
		response.Cycles = append(response.Cycles, cycleResponse{
			ID:         c.ID,
			Seq:        c.Seq,
			Start:      c.Start,
			End:        c.End,
			Duration:   c.Duration,
			Confidence: c.Confidence,
			Keypoints:  c.Keypoints,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// upload handles POST /api/analyses/{id}/cycles. Candidate cycles from an
// offline analysis step arrive in any order with unreliable start times;
// the stored timeline is the continuity-enforced normalization of the
// batch, replacing whatever was stored before.
func (h *CyclesHandler) upload(w http.ResponseWriter, r *http.Request, analysisID string) {
	analysis, err := h.store.Analyses().GetByID(analysisID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get analysis")
		return
	}

	var req uploadCyclesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	candidates := make([]cycle.Cycle, 0, len(req.Cycles))
	for _, c := range req.Cycles {
		confidence := c.Confidence
		if confidence == 0 {
			confidence = 1.0
		}
		candidates = append(candidates, cycle.Cycle{
			ID:         uuid.New().String(),
			Start:      c.Start,
			End:        c.End,
			Duration:   c.End - c.Start,
			Confidence: confidence,
			Keypoints:  c.Keypoints,
		})
	}

	normalized := cycle.EnforceContinuity(candidates, cycle.Options{
		SessionStart:     req.Options.SessionStart,
		ClampNonPositive: req.Options.ClampNonPositive,
	})

	rows := make([]store.Cycle, 0, len(normalized))
	for _, c := range normalized {
		rows = append(rows, store.Cycle{
			ID:         c.ID,
			AnalysisID: analysisID,
			Start:      c.Start,
			End:        c.End,
			Duration:   c.Duration,
			Confidence: c.Confidence,
			Keypoints:  c.Keypoints,
		})
	}

	if err := h.store.Cycles().Replace(analysisID, rows); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store cycles")
		return
	}

	if req.Options.SessionStart != nil && *req.Options.SessionStart != analysis.SessionStart {
		analysis.SessionStart = *req.Options.SessionStart
		if err := h.store.Analyses().Update(analysis); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update analysis")
			return
		}
	}

	response := listCyclesResponse{
		AnalysisID: analysisID,
		Cycles:     make([]cycleResponse, 0, len(normalized)),
	}
	for i, c := range normalized {
		response.Cycles = append(response.Cycles, cycleResponse{
			ID:         c.ID,
			Seq:        i,
			Start:      c.Start,
			End:        c.End,
			Duration:   c.Duration,
			Confidence: c.Confidence,
			Keypoints:  c.Keypoints,
		})
	}

	writeJSON(w, http.StatusCreated, response)
}
