package control

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
	"go.uber.org/multierr"

	"github.com/swervelabs/pathtrack/spatialmath"
	"github.com/swervelabs/pathtrack/trajectory"
)

// Config assembles the per-axis gains for a holonomic controller.
type Config struct {
	AlongTrack PIDConfig     `json:"along_track"`
	CrossTrack PIDConfig     `json:"cross_track"`
	Heading    ProfileConfig `json:"heading"`
}

// Validate checks every axis config, aggregating all field errors.
func (cfg Config) Validate(path string) error {
	return multierr.Combine(
		cfg.AlongTrack.Validate(path+".along_track"),
		cfg.CrossTrack.Validate(path+".cross_track"),
		cfg.Heading.Validate(path+".heading"),
	)
}

// Holonomic converts pose error against a trajectory sample into a planar
// velocity command for an omnidirectional chassis.
//
// The position error is rotated into a frame aligned with the target's
// direction of travel, decoupling it into along-track and cross-track
// components so each axis runs an independent loop without cross-coupled
// error growth. The along-track loop adds its correction to the sample's
// velocity feedforward; the heading loop turns the chassis toward the
// requested facing independently of the direction of travel. The combined
// linear command is rotated back into the field frame before returning.
//
// Compute is deterministic in its inputs apart from each loop's own
// integrator and derivative memory. It does not guard against NaN poses;
// garbage in, garbage out.
type Holonomic struct {
	along *PID
	cross *PID
	theta *ProfiledPID
}

// NewHolonomic returns a holonomic controller with the given per-axis gains.
func NewHolonomic(cfg Config) (*Holonomic, error) {
	if err := cfg.Validate("controller"); err != nil {
		return nil, err
	}
	along, err := NewPID(cfg.AlongTrack)
	if err != nil {
		return nil, err
	}
	cross, err := NewPID(cfg.CrossTrack)
	if err != nil {
		return nil, err
	}
	theta, err := NewProfiledPID(cfg.Heading)
	if err != nil {
		return nil, err
	}
	return &Holonomic{along: along, cross: cross, theta: theta}, nil
}

// Compute returns the field-frame velocity command driving the chassis from
// its current pose toward the target sample while turning toward facing. dt
// is the time since the previous call for this trajectory.
func (h *Holonomic) Compute(
	current spatialmath.Pose2D,
	target trajectory.Sample,
	facing float64,
	dt time.Duration,
) spatialmath.Velocity2D {
	sin, cos := math.Sincos(target.Pose.Theta)

	dx := target.Pose.Point.X - current.Point.X
	dy := target.Pose.Point.Y - current.Point.Y
	alongErr := cos*dx + sin*dy
	crossErr := -sin*dx + cos*dy

	vAlong := target.Velocity + h.along.Output(alongErr, 0, dt)
	vCross := h.cross.Output(crossErr, 0, dt)
	omega := h.theta.Output(facing, current.Theta, dt)

	return spatialmath.Velocity2D{
		Linear:  r2.Point{X: cos*vAlong - sin*vCross, Y: sin*vAlong + cos*vCross},
		Angular: omega,
	}
}

// Reset clears every axis loop's memory. A controller must be reset before
// it is reused for an unrelated trajectory, so stale error history from the
// previous path cannot leak into the first commands of the next one.
func (h *Holonomic) Reset() {
	h.along.Reset()
	h.cross.Reset()
	h.theta.Reset()
}
