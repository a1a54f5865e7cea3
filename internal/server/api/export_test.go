package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/taala/internal/store"
	"github.com/ayusman/taala/internal/upload"
)

func TestExportHandler_PushesAnalysis(t *testing.T) {
	s := newTestStore(t)
	analysis := createTestAnalysis(t, s)

	cycles := []store.Cycle{
		{ID: "c1", AnalysisID: analysis.ID, Start: 0, End: 1.1, Duration: 1.1, Confidence: 1.0},
		{ID: "c2", AnalysisID: analysis.ID, Start: 1.1, End: 2.4, Duration: 1.3, Confidence: 1.0},
	}
	if err := s.Cycles().Replace(analysis.ID, cycles); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	var received upload.Payload
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer remote.Close()

	handler := NewExportHandler(s, upload.NewUploader(remote.URL, 5000))
	req := httptest.NewRequest(http.MethodPost, "/api/analyses/"+analysis.ID+"/export", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if received.Analysis == nil || received.Analysis.ID != analysis.ID {
		t.Errorf("remote received analysis %+v", received.Analysis)
	}
	if len(received.Cycles) != 2 {
		t.Errorf("remote received %d cycles, want 2", len(received.Cycles))
	}
}

func TestExportHandler_NoUploaderConfigured(t *testing.T) {
	s := newTestStore(t)
	analysis := createTestAnalysis(t, s)

	handler := NewExportHandler(s, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/analyses/"+analysis.ID+"/export", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestExportHandler_AnalysisNotFound(t *testing.T) {
	s := newTestStore(t)

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote should not be called for a missing analysis")
	}))
	defer remote.Close()

	handler := NewExportHandler(s, upload.NewUploader(remote.URL, 5000))
	req := httptest.NewRequest(http.MethodPost, "/api/analyses/missing/export", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestExportHandler_RemoteFailure(t *testing.T) {
	s := newTestStore(t)
	analysis := createTestAnalysis(t, s)

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage full", http.StatusInsufficientStorage)
	}))
	defer remote.Close()

	handler := NewExportHandler(s, upload.NewUploader(remote.URL, 5000))
	req := httptest.NewRequest(http.MethodPost, "/api/analyses/"+analysis.ID+"/export", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}
