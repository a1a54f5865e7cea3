// Package server provides the HTTP server for the Taala cycle analysis
// service.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/taala/internal/capture"
	"github.com/ayusman/taala/internal/server/api"
	"github.com/ayusman/taala/internal/store"
	"github.com/ayusman/taala/internal/upload"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	Control   api.DetectorControl
	Live      *LiveHandler
	Uploader  *upload.Uploader
}

// Server represents the HTTP server for the Taala application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		analysisHandler := api.NewAnalysisHandler(s.config.Store)
		cyclesHandler := api.NewCyclesHandler(s.config.Store)
		exportHandler := api.NewExportHandler(s.config.Store, s.config.Uploader)

		// Route between the analysis sub-handlers: cycle timeline requests
		// look like /api/analyses/{id}/cycles, exports like
		// /api/analyses/{id}/export.
		analysisRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/cycles") {
				cyclesHandler.ServeHTTP(w, r)
				return
			}
			if strings.HasSuffix(r.URL.Path, "/export") {
				exportHandler.ServeHTTP(w, r)
				return
			}
			analysisHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/analyses", analysisRouter)
		s.mux.Handle("/api/analyses/", analysisRouter)

		settingsHandler := api.NewSettingsHandler(s.config.Store, s.config.Control)
		s.mux.Handle("/api/settings", settingsHandler)
	}

	// Register camera stream endpoint if Camera is configured
	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Register the live metric/cycle WebSocket feed if configured
	if s.config.Live != nil {
		s.mux.Handle("/api/live", s.config.Live)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
