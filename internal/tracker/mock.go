package tracker

import (
	"math"

	"github.com/ayusman/taala/internal/capture"
	"github.com/ayusman/taala/internal/landmark"
)

// MockTracker is a test implementation of the Tracker interface.
// It allows tests to control the tracking results.
type MockTracker struct {
	hands []landmark.HandLandmarks
	err   error
}

// NewMockTracker creates a new MockTracker instance.
func NewMockTracker() *MockTracker {
	return &MockTracker{}
}

// SetHands sets the hands that will be returned by Track.
func (m *MockTracker) SetHands(hands []landmark.HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Track.
func (m *MockTracker) SetError(err error) {
	m.err = err
}

// Track returns the pre-configured hands or error.
func (m *MockTracker) Track(frame *capture.Frame) ([]landmark.HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock tracker.
func (m *MockTracker) Close() error {
	return nil
}

// OscillatingTracker synthesizes a hand that opens and closes with the
// given period, driven entirely by frame timestamps. It exists so pipeline
// tests can produce a known number of motion cycles without hardware or a
// tracking model.
type OscillatingTracker struct {
	// Period is the open-close-open duration in seconds.
	Period float64
}

// Track returns one synthetic hand whose wrist-to-fingertip distance
// follows a raised cosine between roughly 0.1 (curled) and 0.5 (open).
func (o *OscillatingTracker) Track(frame *capture.Frame) ([]landmark.HandLandmarks, error) {
	period := o.Period
	if period <= 0 {
		period = 1.0
	}

	// Phase 0 = curled, phase 0.5 = fully open.
	phase := (1 - math.Cos(2*math.Pi*frame.Timestamp/period)) / 2
	extent := 0.1 + 0.4*phase

	var h landmark.HandLandmarks
	h.Handedness = "Right"
	h.Score = 0.95
	h.Points[landmark.Wrist] = landmark.Point3D{X: 0.5, Y: 0.8}
	h.Points[landmark.MiddleTip] = landmark.Point3D{X: 0.5, Y: 0.8 - extent}

	return []landmark.HandLandmarks{h}, nil
}

// Close is a no-op for the oscillating tracker.
func (o *OscillatingTracker) Close() error {
	return nil
}

// OpenHandLandmarks returns a preset hand with all fingers extended; its
// openness metric sits well above the default high threshold.
func OpenHandLandmarks() landmark.HandLandmarks {
	var h landmark.HandLandmarks
	h.Handedness = "Right"
	h.Score = 0.95

	h.Points[landmark.Wrist] = landmark.Point3D{X: 0.5, Y: 0.8}
	h.Points[landmark.MiddleMCP] = landmark.Point3D{X: 0.5, Y: 0.66}
	h.Points[landmark.MiddlePIP] = landmark.Point3D{X: 0.5, Y: 0.52}
	h.Points[landmark.MiddleDIP] = landmark.Point3D{X: 0.5, Y: 0.4}
	h.Points[landmark.MiddleTip] = landmark.Point3D{X: 0.5, Y: 0.28}

	return h
}

// CurledHandLandmarks returns a preset fist; its openness metric sits below
// the default low threshold.
func CurledHandLandmarks() landmark.HandLandmarks {
	var h landmark.HandLandmarks
	h.Handedness = "Right"
	h.Score = 0.95

	h.Points[landmark.Wrist] = landmark.Point3D{X: 0.5, Y: 0.8}
	h.Points[landmark.MiddleMCP] = landmark.Point3D{X: 0.5, Y: 0.72}
	h.Points[landmark.MiddlePIP] = landmark.Point3D{X: 0.5, Y: 0.7}
	h.Points[landmark.MiddleDIP] = landmark.Point3D{X: 0.48, Y: 0.72}
	h.Points[landmark.MiddleTip] = landmark.Point3D{X: 0.47, Y: 0.73}

	return h
}
