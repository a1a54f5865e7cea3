package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/taala/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func createTestAnalysis(t *testing.T, s *store.Store) analysisResponse {
	t.Helper()

	handler := NewAnalysisHandler(s)
	body := bytes.NewReader([]byte(`{"name": "squat set", "source": "upload"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/analyses", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var resp analysisResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestAnalysisHandler_Create(t *testing.T) {
	s := newTestStore(t)
	resp := createTestAnalysis(t, s)

	if resp.ID == "" {
		t.Error("created analysis has no id")
	}
	if resp.Name != "squat set" {
		t.Errorf("name = %q, want %q", resp.Name, "squat set")
	}
	if resp.Source != "upload" {
		t.Errorf("source = %q, want %q", resp.Source, "upload")
	}
}

func TestAnalysisHandler_CreateValidation(t *testing.T) {
	s := newTestStore(t)
	handler := NewAnalysisHandler(s)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing name", `{"source": "upload"}`, http.StatusBadRequest},
		{"bad source", `{"name": "x", "source": "telepathy"}`, http.StatusBadRequest},
		{"invalid json", `{`, http.StatusBadRequest},
		{"default source", `{"name": "x"}`, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/analyses", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAnalysisHandler_List(t *testing.T) {
	s := newTestStore(t)
	createTestAnalysis(t, s)
	handler := NewAnalysisHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", ct)
	}

	var resp listAnalysesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Analyses) != 1 {
		t.Errorf("got %d analyses, want 1", len(resp.Analyses))
	}
}

func TestAnalysisHandler_Get(t *testing.T) {
	s := newTestStore(t)
	created := createTestAnalysis(t, s)
	handler := NewAnalysisHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/"+created.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp analysisResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != created.ID {
		t.Errorf("id = %q, want %q", resp.ID, created.ID)
	}
}

func TestAnalysisHandler_GetMissing(t *testing.T) {
	s := newTestStore(t)
	handler := NewAnalysisHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAnalysisHandler_Update(t *testing.T) {
	s := newTestStore(t)
	created := createTestAnalysis(t, s)
	handler := NewAnalysisHandler(s)

	body := bytes.NewReader([]byte(`{"name": "renamed", "session_start": 2.5}`))
	req := httptest.NewRequest(http.MethodPut, "/api/analyses/"+created.ID, body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp analysisResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "renamed" || resp.SessionStart != 2.5 {
		t.Errorf("after update: name=%q sessionStart=%v", resp.Name, resp.SessionStart)
	}
}

func TestAnalysisHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	created := createTestAnalysis(t, s)
	handler := NewAnalysisHandler(s)

	req := httptest.NewRequest(http.MethodDelete, "/api/analyses/"+created.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/analyses/"+created.ID, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAnalysisHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewAnalysisHandler(s)

	req := httptest.NewRequest(http.MethodPatch, "/api/analyses", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
