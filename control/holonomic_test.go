package control

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/swervelabs/pathtrack/spatialmath"
	"github.com/swervelabs/pathtrack/trajectory"
)

func testConfig() Config {
	return Config{
		AlongTrack: PIDConfig{P: 1},
		CrossTrack: PIDConfig{P: 1},
		Heading:    ProfileConfig{PID: PIDConfig{P: 2}, MaxVelocity: 4},
	}
}

func TestNewHolonomicValidation(t *testing.T) {
	_, err := NewHolonomic(Config{CrossTrack: PIDConfig{P: -1}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "controller.cross_track")

	h, err := NewHolonomic(testConfig())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, h, test.ShouldNotBeNil)
}

func TestComputeAtTargetIsZero(t *testing.T) {
	h, err := NewHolonomic(testConfig())
	test.That(t, err, test.ShouldBeNil)

	pose := spatialmath.NewPose2D(1, 2, math.Pi/3)
	cmd := h.Compute(pose, trajectory.Sample{Pose: pose, Facing: pose.Theta}, pose.Theta, dt)
	test.That(t, cmd.Linear.X, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, cmd.Linear.Y, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, 0, 1e-12)
}

func TestComputeForwardBias(t *testing.T) {
	// midpoint of a straight 2s east-bound trajectory with the chassis still
	// at the start: a forward-biased command with no lateral or angular terms
	h, err := NewHolonomic(testConfig())
	test.That(t, err, test.ShouldBeNil)

	target := trajectory.Sample{T: 1, Pose: spatialmath.NewPose2D(1, 0, 0), Velocity: 0.5}
	cmd := h.Compute(spatialmath.NewPose2D(0, 0, 0), target, 0, dt)

	// feedforward 0.5 plus unit along-track gain on a 1m error
	test.That(t, cmd.Linear.X, test.ShouldAlmostEqual, 1.5, 1e-9)
	test.That(t, cmd.Linear.Y, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, 0, 1e-12)
}

func TestComputeDecouplesAxes(t *testing.T) {
	// target travelling north with the chassis displaced east of the path:
	// the error is pure cross-track and must come back as lateral correction
	// in the field frame, with no along-track component
	h, err := NewHolonomic(testConfig())
	test.That(t, err, test.ShouldBeNil)

	target := trajectory.Sample{Pose: spatialmath.NewPose2D(0, 0, math.Pi/2), Velocity: 0}
	cmd := h.Compute(spatialmath.NewPose2D(0.5, 0, math.Pi/2), target, math.Pi/2, dt)

	test.That(t, cmd.Linear.X, test.ShouldAlmostEqual, -0.5, 1e-9)
	test.That(t, cmd.Linear.Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, 0, 1e-12)
}

func TestComputeRotatesFeedforward(t *testing.T) {
	// no pose error: the command is the sample velocity along its direction
	// of travel, expressed in the field frame
	h, err := NewHolonomic(testConfig())
	test.That(t, err, test.ShouldBeNil)

	theta := math.Pi / 4
	pose := spatialmath.NewPose2D(3, 3, theta)
	cmd := h.Compute(pose, trajectory.Sample{Pose: pose, Velocity: 1}, theta, dt)

	test.That(t, cmd.Linear.X, test.ShouldAlmostEqual, math.Sqrt2/2, 1e-9)
	test.That(t, cmd.Linear.Y, test.ShouldAlmostEqual, math.Sqrt2/2, 1e-9)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, 0, 1e-12)
}

func TestComputeHeadingShortestArc(t *testing.T) {
	h, err := NewHolonomic(testConfig())
	test.That(t, err, test.ShouldBeNil)

	pose := spatialmath.NewPose2D(0, 0, 3*math.Pi/4)
	cmd := h.Compute(pose, trajectory.Sample{Pose: pose}, -3*math.Pi/4, dt)
	// heading gain 2 on a +pi/2 shortest-arc error
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, math.Pi, 1e-9)
}

func TestComputeNaNPropagates(t *testing.T) {
	h, err := NewHolonomic(testConfig())
	test.That(t, err, test.ShouldBeNil)

	bad := spatialmath.Pose2D{Theta: math.NaN()}
	bad.Point.X = math.NaN()
	cmd := h.Compute(bad, trajectory.Sample{Pose: spatialmath.NewPose2D(1, 0, 0)}, 0, dt)
	test.That(t, math.IsNaN(cmd.Linear.X), test.ShouldBeTrue)
	test.That(t, math.IsNaN(cmd.Angular), test.ShouldBeTrue)
}

func TestComputeResetClearsLoopMemory(t *testing.T) {
	cfg := testConfig()
	cfg.AlongTrack.I = 1
	h, err := NewHolonomic(cfg)
	test.That(t, err, test.ShouldBeNil)

	target := trajectory.Sample{Pose: spatialmath.NewPose2D(1, 0, 0)}
	current := spatialmath.NewPose2D(0, 0, 0)
	first := h.Compute(current, target, 0, dt)
	for i := 0; i < 50; i++ {
		h.Compute(current, target, 0, dt)
	}
	wound := h.Compute(current, target, 0, dt)
	test.That(t, wound.Linear.X, test.ShouldBeGreaterThan, first.Linear.X)

	h.Reset()
	fresh := h.Compute(current, target, 0, dt)
	test.That(t, fresh.Linear.X, test.ShouldAlmostEqual, first.Linear.X, 1e-9)
}
