// Package app wires the capture, tracking, and cycle detection components
// into the live analysis pipeline.
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/taala/internal/capture"
	"github.com/ayusman/taala/internal/cycle"
	"github.com/ayusman/taala/internal/landmark"
	"github.com/ayusman/taala/internal/store"
	"github.com/ayusman/taala/internal/tracker"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active tracking.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching
	// back to idle mode.
	IdleTimeoutMs = 2000
)

// Sink receives the pipeline's live output: one metric sample per tracked
// frame and one event per accepted cycle. The WebSocket feed implements it.
type Sink interface {
	PublishMetric(t, metric float64)
	PublishCycle(c cycle.Cycle)
}

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	Detector     cycle.Config
	Sink         Sink
}

// App is the main application that orchestrates frame capture, landmark
// tracking, and cycle detection. One App runs at most one capture session
// at a time; the session's boundary detector is owned here and never
// shared.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionGate
	tracker  tracker.Tracker
	metric   landmark.MetricFunc
	detector *cycle.Detector
	asm      *cycle.Assembler

	enabled    bool
	analysisID string
	mu         sync.RWMutex
	stopCh     chan struct{}
}

// New creates a new App instance with the given configuration. It fails
// only when the detector thresholds are invalid.
func New(config Config) (*App, error) {
	if config.Detector == (cycle.Config{}) {
		config.Detector = cycle.DefaultConfig()
	}

	detector, err := cycle.NewDetector(config.Detector)
	if err != nil {
		return nil, fmt.Errorf("detector config: %w", err)
	}

	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		motion:   capture.NewMotionGate(motionThreshold),
		metric:   landmark.Openness,
		detector: detector,
		asm:      cycle.NewAssembler(),
	}

	// Try MediaPipe first, fall back to the mock tracker
	if mp, err := tracker.NewMediaPipeTracker(tracker.DefaultConfig()); err == nil {
		a.tracker = mp
		log.Println("Using MediaPipe hand tracking")
	} else {
		log.Printf("MediaPipe not available (%v), using mock tracker", err)
		a.tracker = tracker.NewMockTracker()
	}

	return a, nil
}

// SetEnabled enables or disables cycle detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether cycle detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetTracker sets the landmark tracker implementation to use.
func (a *App) SetTracker(t tracker.Tracker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracker = t
}

// SetMetric swaps the phase metric. The detector contract only needs a
// scalar that separates the gesture's open and closed phases.
func (a *App) SetMetric(fn landmark.MetricFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if fn != nil {
		a.metric = fn
	}
}

// SetThresholds forwards a live threshold update to the session's
// detector. Invalid pairs are ignored there.
func (a *App) SetThresholds(high, low float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector.SetThresholds(high, low)
}

// SetMinDuration forwards a debounce window update to the detector.
func (a *App) SetMinDuration(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector.SetMinDuration(seconds)
}

// DetectorConfig returns the detector's current configuration.
func (a *App) DetectorConfig() cycle.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector.Config()
}

// LoadSettings applies persisted detector settings from the store.
func (a *App) LoadSettings() {
	if a.config.Store == nil {
		return
	}

	defaults := cycle.DefaultConfig()
	settings := a.config.Store.Settings()
	high := settings.GetFloat(store.SettingHighThreshold, defaults.High)
	low := settings.GetFloat(store.SettingLowThreshold, defaults.Low)
	minDuration := settings.GetFloat(store.SettingMinDuration, defaults.MinDuration)

	a.SetThresholds(high, low)
	a.SetMinDuration(minDuration)
}

// BeginSession creates a live analysis record and resets the detector and
// assembler so the new session starts from a clean state. Cycles detected
// from here on are appended to this analysis.
func (a *App) BeginSession(name string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.Store != nil {
		analysis := &store.Analysis{
			ID:     uuid.New().String(),
			Name:   name,
			Source: store.SourceLive,
		}
		if err := a.config.Store.Analyses().Create(analysis); err != nil {
			return "", err
		}
		a.analysisID = analysis.ID
	} else {
		a.analysisID = uuid.New().String()
	}

	a.detector.Reset()
	a.asm.Reset()
	a.enabled = true

	log.Printf("Session started: %s", a.analysisID)
	return a.analysisID, nil
}

// EndSession stops appending cycles. The detector keeps its state so a
// paused session can resume; call BeginSession for a fresh one.
func (a *App) EndSession() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.analysisID != "" {
		log.Printf("Session ended: %s", a.analysisID)
	}
	a.analysisID = ""
	a.enabled = false
}

// SessionID returns the current analysis ID, or empty when no session is
// active.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.analysisID
}

// Start begins the capture pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Capture pipeline started")
	return nil
}

// Stop halts the capture pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close the motion gate
	a.motion.Close()

	// Close the tracker if set
	if a.tracker != nil {
		if err := a.tracker.Close(); err != nil {
			log.Printf("Error closing tracker: %v", err)
		}
	}

	log.Println("Capture pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionGate returns the motion gate instance.
func (a *App) MotionGate() *capture.MotionGate {
	return a.motion
}

// Tracker returns the landmark tracker.
func (a *App) Tracker() tracker.Tracker {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracker
}
