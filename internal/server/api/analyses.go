// Package api provides HTTP API handlers for the Taala cycle analysis service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/taala/internal/store"
)

// AnalysisHandler handles HTTP requests for analysis resources.
type AnalysisHandler struct {
	store *store.Store
}

// NewAnalysisHandler creates a new AnalysisHandler with the given store.
func NewAnalysisHandler(s *store.Store) *AnalysisHandler {
	return &AnalysisHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *AnalysisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/analyses or /api/analyses/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/analyses")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/analyses
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/analyses/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createAnalysisRequest struct {
	Name         string  `json:"name"`
	Source       string  `json:"source"`
	SessionStart float64 `json:"session_start"`
}

type updateAnalysisRequest struct {
	Name         string   `json:"name"`
	SessionStart *float64 `json:"session_start"`
}

type analysisResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Source       string  `json:"source"`
	SessionStart float64 `json:"session_start"`
	CycleCount   int     `json:"cycle_count"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type listAnalysesResponse struct {
	Analyses []analysisResponse `json:"analyses"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Analysis to an analysisResponse.
func toResponse(a *store.Analysis) analysisResponse {
	return analysisResponse{
		ID:           a.ID,
		Name:         a.Name,
		Source:       string(a.Source),
		SessionStart: a.SessionStart,
		CycleCount:   a.CycleCount,
		CreatedAt:    a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/analyses and returns all analyses.
func (h *AnalysisHandler) list(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.store.Analyses().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}

	response := listAnalysesResponse{
		Analyses: make([]analysisResponse, 0, len(analyses)),
	}

	for _, a := range analyses {
		response.Analyses = append(response.Analyses, toResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/analyses/{id} and returns a single analysis.
func (h *AnalysisHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	analysis, err := h.store.Analyses().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get analysis")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(analysis))
}

// create handles POST /api/analyses and creates a new analysis.
func (h *AnalysisHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	source := store.Source(req.Source)
	if source == "" {
		source = store.SourceUpload
	}
	if source != store.SourceLive && source != store.SourceUpload {
		writeError(w, http.StatusBadRequest, "Invalid analysis source")
		return
	}

	analysis := &store.Analysis{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Source:       source,
		SessionStart: req.SessionStart,
	}

	if err := h.store.Analyses().Create(analysis); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create analysis")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(analysis))
}

// update handles PUT /api/analyses/{id} and updates an existing analysis.
func (h *AnalysisHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	analysis, err := h.store.Analyses().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get analysis")
		return
	}

	var req updateAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		analysis.Name = req.Name
	}
	if req.SessionStart != nil {
		analysis.SessionStart = *req.SessionStart
	}

	if err := h.store.Analyses().Update(analysis); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update analysis")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(analysis))
}

// delete handles DELETE /api/analyses/{id} and removes an analysis with
// its cycles.
func (h *AnalysisHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Analyses().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete analysis")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
