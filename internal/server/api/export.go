package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/taala/internal/store"
	"github.com/ayusman/taala/internal/upload"
)

// ExportHandler pushes an analysis and its cycle timeline to the
// configured external collection endpoint.
type ExportHandler struct {
	store    *store.Store
	uploader *upload.Uploader
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(s *store.Store, u *upload.Uploader) *ExportHandler {
	return &ExportHandler{store: s, uploader: u}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/analyses/{id}/export
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[1] != "export" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.uploader == nil || !h.uploader.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "No upload endpoint configured")
		return
	}

	analysisID := parts[0]
	analysis, err := h.store.Analyses().GetByID(analysisID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get analysis")
		return
	}

	cycles, err := h.store.Cycles().GetByAnalysisID(analysisID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get cycles")
		return
	}

	if err := h.uploader.Upload(r.Context(), analysis, cycles); err != nil {
		writeError(w, http.StatusBadGateway, "Export failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analysis_id": analysisID,
		"cycles":      len(cycles),
	})
}
