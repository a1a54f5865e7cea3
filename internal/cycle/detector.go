package cycle

import "fmt"

// Config holds the boundary detector thresholds.
type Config struct {
	// High is the metric value at which a rising edge is recognized.
	High float64
	// Low is the value the metric must fall back to before the next
	// rising edge can be recognized. Must be strictly below High.
	Low float64
	// MinDuration is the minimum believable cycle length in seconds.
	// Rising edges closer than this to the last accepted boundary are
	// treated as tracking noise and not counted.
	MinDuration float64
}

// DefaultConfig returns detector thresholds suited to the wrist-to-fingertip
// openness metric in normalized coordinates.
func DefaultConfig() Config {
	return Config{
		High:        0.2,
		Low:         0.15,
		MinDuration: 0.5,
	}
}

// Detector is a two-threshold hysteresis state machine that converts a
// noisy metric stream into timestamped boundary events. A single threshold
// is unstable when the metric hovers near it; the dead band between Low and
// High guarantees a minimum amplitude between re-triggers.
//
// A Detector belongs to exactly one capture or analysis session and is
// advanced by repeated Step calls in sample-time order. It is not safe for
// concurrent use; sessions that run in parallel each get their own instance.
type Detector struct {
	config Config

	// inHigh is true while the metric sits above the dead band, i.e. the
	// detector has seen a rising edge and is waiting for the fall to Low.
	inHigh       bool
	lastBoundary float64
	hasBoundary  bool
}

// NewDetector creates a Detector with the given thresholds. It fails when
// Low is not strictly below High, since every later comparison would be
// silently wrong. A negative MinDuration is clamped to zero.
func NewDetector(config Config) (*Detector, error) {
	if config.Low >= config.High {
		return nil, fmt.Errorf("invalid thresholds: low %.4f must be below high %.4f", config.Low, config.High)
	}
	if config.MinDuration < 0 {
		config.MinDuration = 0
	}
	return &Detector{config: config}, nil
}

// Step feeds one (metric, timestamp) sample to the detector and returns the
// boundary timestamp when this sample produced an accepted rising-edge
// crossing. Timestamps must be non-decreasing across calls.
//
// Transitions:
//  1. Below the dead band to >= High: rising edge. The crossing becomes a
//     boundary unless it falls within MinDuration of the last accepted one,
//     in which case it is counted as real motion but not as a boundary.
//  2. Above the dead band to <= Low: the detector re-arms. No event.
//  3. Movement inside the dead band changes nothing.
func (d *Detector) Step(metric, t float64) (float64, bool) {
	if !d.inHigh {
		if metric < d.config.High {
			return 0, false
		}
		d.inHigh = true

		if !d.hasBoundary {
			d.hasBoundary = true
			d.lastBoundary = t
			return t, true
		}

		if t-d.lastBoundary >= d.config.MinDuration {
			d.lastBoundary = t
			return t, true
		}

		// Debounced: the crossing still arms the detector but the last
		// accepted boundary is kept as the debounce reference point.
		return 0, false
	}

	if metric <= d.config.Low {
		d.inHigh = false
	}
	return 0, false
}

// SetThresholds updates the hysteresis band. A pair with low >= high is
// ignored so a live session is never left with unusable thresholds
// mid-interaction.
func (d *Detector) SetThresholds(high, low float64) {
	if low >= high {
		return
	}
	d.config.High = high
	d.config.Low = low
}

// SetMinDuration updates the debounce window. Negative values clamp to zero.
func (d *Detector) SetMinDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	d.config.MinDuration = seconds
}

// Reset clears the state machine back to its initial unarmed state with no
// recorded boundary. Thresholds are kept.
func (d *Detector) Reset() {
	d.inHigh = false
	d.lastBoundary = 0
	d.hasBoundary = false
}

// Config returns the current detector configuration.
func (d *Detector) Config() Config {
	return d.config
}
