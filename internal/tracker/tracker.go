// Package tracker provides hand landmark tracking interfaces for the cycle
// analysis pipeline. The tracking model itself is an opaque upstream
// producer; this package only defines how per-frame landmark arrays reach
// the metric extractor.
package tracker

import (
	"github.com/ayusman/taala/internal/capture"
	"github.com/ayusman/taala/internal/landmark"
)

// Tracker defines the interface for landmark tracking implementations.
type Tracker interface {
	// Track analyzes a video frame and returns landmarks for each detected
	// hand. Returns an empty slice if no hands are visible.
	Track(frame *capture.Frame) ([]landmark.HandLandmarks, error)

	// Close releases any resources held by the tracker.
	Close() error
}

// Config holds configuration options for landmark tracking.
type Config struct {
	// MaxHands is the maximum number of hands to track (default: 1; cycle
	// analysis follows a single hand).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
