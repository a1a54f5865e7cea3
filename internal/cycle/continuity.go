package cycle

import (
	"math"
	"sort"
)

// Options controls continuity enforcement.
type Options struct {
	// SessionStart, when set, pins the first cycle's start time to a known
	// timeline origin (typically 0 for video analysis).
	SessionStart *float64
	// ClampNonPositive stretches degenerate cycles (non-finite or
	// non-positive duration) to Epsilon instead of leaving them broken.
	ClampNonPositive bool
}

// EnforceContinuity re-stitches an unordered set of candidate cycles into a
// gap-free, strictly ordered partition of the timeline. Offline analysis
// steps produce start/end pairs that are not guaranteed contiguous; end
// times derive from confirmed boundary crossings and are trusted, while
// each start time is overwritten with the previous cycle's finalized end.
//
// The transform is pure and cardinality-preserving: no cycles are dropped
// or added, the input slice is not modified, and applying it twice with the
// same options is a fixed point. Ties on start time keep input order.
func EnforceContinuity(cycles []Cycle, opts Options) []Cycle {
	out := make([]Cycle, len(cycles))
	copy(out, cycles)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})

	for i := range out {
		if i == 0 {
			if opts.SessionStart != nil {
				out[0].Start = *opts.SessionStart
			}
		} else {
			out[i].Start = out[i-1].End
		}

		out[i].Duration = out[i].End - out[i].Start

		if opts.ClampNonPositive && (!isFinite(out[i].Duration) || out[i].Duration <= 0) {
			out[i].End = out[i].Start + Epsilon
			out[i].Duration = Epsilon
		}
	}

	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
