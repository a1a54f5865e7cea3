package landmark

// MetricFunc maps one frame's hand landmarks to a scalar phase metric.
// The contract is that the value monotonically distinguishes the gesture's
// open and closed phases; the boundary detector does not care how the
// number is produced. Implementations must be pure and non-negative.
type MetricFunc func(h HandLandmarks) float64

// Openness is the reference phase metric: the Euclidean distance between
// the wrist and the middle fingertip in normalized frame coordinates.
// A fully curled hand gives a small value, an extended hand a large one.
// Returns 0 when either landmark is missing (zero-valued).
func Openness(h HandLandmarks) float64 {
	wrist := h.Points[Wrist]
	tip := h.Points[MiddleTip]

	if isZero(wrist) || isZero(tip) {
		return 0
	}

	return Distance(wrist, tip)
}

// isZero reports whether a landmark carries no position at all, which is
// how trackers signal an absent point.
func isZero(p Point3D) bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}
