// Package cycle turns a scalar phase metric stream into discrete motion
// cycles. It contains the hysteresis boundary detector, the assembler that
// pairs boundaries into cycles, and the continuity enforcer that normalizes
// batch-produced cycle timelines.
package cycle

import "encoding/json"

// Cycle represents one complete repetition of a tracked motion, delimited
// by two consecutive boundary events.
type Cycle struct {
	ID         string          `json:"id"`
	Start      float64         `json:"start"`
	End        float64         `json:"end"`
	Duration   float64         `json:"duration"`
	Confidence float64         `json:"confidence,omitempty"`
	Keypoints  json.RawMessage `json:"keypoints,omitempty"`
}

// Epsilon is the duration assigned to degenerate cycles when clamping is
// requested: a cycle whose end does not lie after its start is stretched
// to this length rather than dropped.
const Epsilon = 0.001
