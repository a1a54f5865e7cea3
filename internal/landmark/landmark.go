// Package landmark provides the hand landmark model and phase metric
// extraction for cycle analysis.
package landmark

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a tracked landmark position. Coordinates are
// frame-normalized [0,1] (or raw pixels, see NormalizeCoords). Visibility
// is optional; trackers that do not report it leave it zero.
type Point3D struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility,omitempty"`
}

// HandLandmarks represents the 21 hand landmarks reported by the tracker
// for one detected hand in one frame.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Distance calculates the Euclidean distance between two landmark positions.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// NormalizeCoords returns landmarks with coordinates mapped into [0,1].
// Trackers sometimes report raw pixel positions instead of frame-normalized
// ones; any coordinate magnitude beyond 2.0 is taken as the pixel case and
// the given frame dimensions are used to rescale. Already-normalized input
// is returned unchanged.
func NormalizeCoords(h HandLandmarks, width, height int) HandLandmarks {
	if width <= 0 || height <= 0 {
		return h
	}

	pixels := false
	for _, p := range h.Points {
		if math.Abs(p.X) > 2.0 || math.Abs(p.Y) > 2.0 {
			pixels = true
			break
		}
	}
	if !pixels {
		return h
	}

	out := h
	for i := range out.Points {
		out.Points[i].X /= float64(width)
		out.Points[i].Y /= float64(height)
	}
	return out
}
