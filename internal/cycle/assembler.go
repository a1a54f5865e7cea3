package cycle

import "github.com/google/uuid"

// Assembler pairs consecutive accepted boundary events into Cycle records.
// The first boundary only opens an interval; each later boundary closes the
// previous interval and opens the next, so N boundaries yield N-1 cycles
// and every cycle starts exactly where its predecessor ended.
type Assembler struct {
	prev    float64
	hasPrev bool
}

// NewAssembler creates an Assembler with no open interval.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Push records an accepted boundary at time t. When a previous boundary is
// open it returns the closed cycle and true; the very first boundary
// returns false. Confidence is a fixed annotation for live capture; the
// detector has no quality signal to derive it from.
func (a *Assembler) Push(t float64) (Cycle, bool) {
	if !a.hasPrev {
		a.prev = t
		a.hasPrev = true
		return Cycle{}, false
	}

	c := Cycle{
		ID:         uuid.New().String(),
		Start:      a.prev,
		End:        t,
		Duration:   t - a.prev,
		Confidence: 1.0,
	}
	a.prev = t
	return c, true
}

// Reset discards any open interval so the next boundary starts fresh.
func (a *Assembler) Reset() {
	a.prev = 0
	a.hasPrev = false
}
