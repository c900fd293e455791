package spatialmath

import "math"

// WrapAngle reduces theta to the equivalent angle in (-pi, pi].
func WrapAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta <= -math.Pi {
		theta += 2 * math.Pi
	} else if theta > math.Pi {
		theta -= 2 * math.Pi
	}
	return theta
}

// AngleDiff returns the shortest signed rotation taking the angle from to
// the angle to, in (-pi, pi]. The result never crosses the +/-pi branch cut
// the long way around.
func AngleDiff(from, to float64) float64 {
	return WrapAngle(to - from)
}
