// Package trajectory provides the time-indexed trajectory container used for
// closed-loop path tracking: immutable samples and interpolated lookup by
// elapsed time. Trajectory generation itself happens elsewhere; a Track is an
// opaque, precomputed input.
package trajectory

import (
	"github.com/swervelabs/pathtrack/spatialmath"
)

// Sample is a single point on a precomputed trajectory.
//
// Pose.Theta is the direction of travel at this point; Facing is the heading
// the chassis should point, which a holonomic drivetrain controls
// independently of where it is going. Velocity is the speed along the
// direction of travel and Curvature the path curvature, both at this point.
type Sample struct {
	// T is seconds from the start of the trajectory.
	T         float64
	Pose      spatialmath.Pose2D
	Facing    float64
	Velocity  float64
	Curvature float64
}
