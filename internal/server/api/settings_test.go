package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/taala/internal/cycle"
)

// fakeControl records reconfiguration calls the way a live session would
// apply them to its boundary detector.
type fakeControl struct {
	detector *cycle.Detector
}

func newFakeControl(t *testing.T) *fakeControl {
	t.Helper()
	d, err := cycle.NewDetector(cycle.DefaultConfig())
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	return &fakeControl{detector: d}
}

func (f *fakeControl) SetThresholds(high, low float64) { f.detector.SetThresholds(high, low) }
func (f *fakeControl) SetMinDuration(seconds float64)  { f.detector.SetMinDuration(seconds) }
func (f *fakeControl) DetectorConfig() cycle.Config    { return f.detector.Config() }

func getSettings(t *testing.T, handler *SettingsHandler) settingsResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET settings status = %d", rec.Code)
	}

	var resp settingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func putSettings(t *testing.T, handler *SettingsHandler, body string) settingsResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("PUT settings status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp settingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestSettingsHandler_Defaults(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s, nil)

	resp := getSettings(t, handler)
	defaults := cycle.DefaultConfig()
	if resp.High != defaults.High || resp.Low != defaults.Low || resp.MinDuration != defaults.MinDuration {
		t.Errorf("defaults = %+v, want %+v", resp, defaults)
	}
	if !resp.DrawSkeleton {
		t.Error("draw_skeleton should default to true")
	}
}

func TestSettingsHandler_UpdateAppliesToDetector(t *testing.T) {
	s := newTestStore(t)
	control := newFakeControl(t)
	handler := NewSettingsHandler(s, control)

	resp := putSettings(t, handler, `{"high": 0.4, "low": 0.1, "min_duration": 0.8}`)

	if resp.High != 0.4 || resp.Low != 0.1 || resp.MinDuration != 0.8 {
		t.Errorf("response = %+v, want applied values", resp)
	}

	cfg := control.DetectorConfig()
	if cfg.High != 0.4 || cfg.Low != 0.1 || cfg.MinDuration != 0.8 {
		t.Errorf("detector config = %+v, want applied values", cfg)
	}
}

func TestSettingsHandler_InvalidThresholdsIgnored(t *testing.T) {
	s := newTestStore(t)
	control := newFakeControl(t)
	handler := NewSettingsHandler(s, control)

	before := control.DetectorConfig()
	resp := putSettings(t, handler, `{"high": 0.1, "low": 0.5}`)

	// Not an error: the previous configuration stays in effect.
	if resp.High != before.High || resp.Low != before.Low {
		t.Errorf("response = %+v, want previous config %+v", resp, before)
	}
	after := control.DetectorConfig()
	if after != before {
		t.Errorf("detector config changed to %+v", after)
	}
}

func TestSettingsHandler_PartialThresholdUpdate(t *testing.T) {
	s := newTestStore(t)
	control := newFakeControl(t)
	handler := NewSettingsHandler(s, control)

	// Only the high side moves; the stored low still forms a valid band.
	resp := putSettings(t, handler, `{"high": 0.5}`)
	if resp.High != 0.5 || resp.Low != cycle.DefaultConfig().Low {
		t.Errorf("response = %+v, want high=0.5 with default low", resp)
	}
}

func TestSettingsHandler_NegativeMinDurationClamps(t *testing.T) {
	s := newTestStore(t)
	control := newFakeControl(t)
	handler := NewSettingsHandler(s, control)

	resp := putSettings(t, handler, `{"min_duration": -2}`)
	if resp.MinDuration != 0 {
		t.Errorf("min_duration = %v, want 0", resp.MinDuration)
	}
}

func TestSettingsHandler_PersistsWithoutControl(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s, nil)

	putSettings(t, handler, `{"high": 0.3, "low": 0.05, "draw_skeleton": false}`)

	// A fresh handler over the same store sees the persisted values.
	fresh := NewSettingsHandler(s, nil)
	resp := getSettings(t, fresh)
	if resp.High != 0.3 || resp.Low != 0.05 {
		t.Errorf("persisted = %+v, want high=0.3 low=0.05", resp)
	}
	if resp.DrawSkeleton {
		t.Error("draw_skeleton should persist as false")
	}
}

func TestSettingsHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/settings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
