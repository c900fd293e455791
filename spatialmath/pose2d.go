// Package spatialmath defines the planar geometry shared by trajectory
// sampling and tracking control: poses, velocity commands, and angle
// wrapping. All headings are radians wrapped to (-pi, pi]; every other
// package goes through WrapAngle and AngleDiff rather than wrapping angles
// itself, so there is exactly one branch-cut convention in the module.
package spatialmath

import (
	"github.com/golang/geo/r2"
)

// Pose2D is a planar pose: a position in a fixed reference frame plus a
// heading in (-pi, pi]. Poses are value types; a pose read from a supplier
// is a snapshot and never mutated in place.
type Pose2D struct {
	Point r2.Point
	Theta float64
}

// NewPose2D builds a pose, wrapping theta into (-pi, pi].
func NewPose2D(x, y, theta float64) Pose2D {
	return Pose2D{Point: r2.Point{X: x, Y: y}, Theta: WrapAngle(theta)}
}

// Velocity2D is a planar velocity command: linear velocity components and an
// angular rate, expressed in the same frame as the pose it was computed
// against. Commands are transient, produced once per control tick.
type Velocity2D struct {
	Linear  r2.Point
	Angular float64
}
