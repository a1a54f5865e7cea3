// Package testdata provides fixtures shared by integration and e2e tests.
package testdata

import "github.com/ayusman/taala/internal/cycle"

// SessionStart is the pinned session origin matching ShuffledCandidates.
const SessionStart = 0.25

// ShuffledCandidates returns recorded cycle candidates the way a client
// recorder delivers them: out of order, with drift between adjacent
// boundaries, and one zero-length entry.
func ShuffledCandidates() []cycle.Cycle {
	return []cycle.Cycle{
		{Start: 2.02, End: 3.10, Duration: 1.08, Confidence: 1.0},
		{Start: 0.30, End: 1.05, Duration: 0.75, Confidence: 1.0},
		{Start: 3.10, End: 3.10, Duration: 0, Confidence: 0.8},
		{Start: 1.00, End: 2.02, Duration: 1.02, Confidence: 1.0},
	}
}

// NormalizedStarts returns the expected starts after continuity
// enforcement of ShuffledCandidates with SessionStart pinned.
func NormalizedStarts() []float64 {
	return []float64{SessionStart, 1.05, 2.02, 3.10}
}
