package trajectory

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"

	"github.com/swervelabs/pathtrack/spatialmath"
)

// Track is an ordered, immutable sequence of samples indexed by strictly
// increasing timestamp, supporting interpolated lookup by elapsed time. A
// track is read-only once built; a tracking session reads it but never
// mutates it, and at most one session should own a track at a time.
type Track struct {
	samples  []Sample
	duration float64

	// piecewise-linear predictors over the sample timestamps, one per
	// channel; unset for a single-sample track
	x, y, theta, facing, velocity, curvature interp.PiecewiseLinear
}

// NewTrack validates and indexes a sample sequence. The sequence must be
// non-empty, start at t=0, and have strictly increasing timestamps. The
// samples are copied; the caller's slice is not retained.
func NewTrack(samples []Sample) (*Track, error) {
	if len(samples) == 0 {
		return nil, errors.New("trajectory must contain at least one sample")
	}
	if samples[0].T != 0 {
		return nil, errors.Errorf("trajectory must start at t=0, first sample is at t=%v", samples[0].T)
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].T <= samples[i-1].T {
			return nil, errors.Errorf(
				"trajectory timestamps must strictly increase, sample %d at t=%v follows t=%v",
				i, samples[i].T, samples[i-1].T)
		}
	}

	tr := &Track{
		samples:  append([]Sample(nil), samples...),
		duration: samples[len(samples)-1].T,
	}
	for i := range tr.samples {
		tr.samples[i].Pose.Theta = spatialmath.WrapAngle(tr.samples[i].Pose.Theta)
		tr.samples[i].Facing = spatialmath.WrapAngle(tr.samples[i].Facing)
	}
	if len(tr.samples) == 1 {
		return tr, nil
	}

	n := len(tr.samples)
	ts := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	thetas := make([]float64, n)
	facings := make([]float64, n)
	vels := make([]float64, n)
	curvs := make([]float64, n)
	for i, s := range tr.samples {
		ts[i] = s.T
		xs[i] = s.Pose.Point.X
		ys[i] = s.Pose.Point.Y
		vels[i] = s.Velocity
		curvs[i] = s.Curvature
		// unwrap the angle channels so linear interpolation follows the
		// shortest arc within each segment instead of crossing +/-pi the
		// long way
		if i == 0 {
			thetas[i] = s.Pose.Theta
			facings[i] = s.Facing
		} else {
			prev := tr.samples[i-1]
			thetas[i] = thetas[i-1] + spatialmath.AngleDiff(prev.Pose.Theta, s.Pose.Theta)
			facings[i] = facings[i-1] + spatialmath.AngleDiff(prev.Facing, s.Facing)
		}
	}

	for _, fit := range []struct {
		pl *interp.PiecewiseLinear
		ys []float64
	}{
		{&tr.x, xs},
		{&tr.y, ys},
		{&tr.theta, thetas},
		{&tr.facing, facings},
		{&tr.velocity, vels},
		{&tr.curvature, curvs},
	} {
		if err := fit.pl.Fit(ts, fit.ys); err != nil {
			return nil, errors.Wrap(err, "indexing trajectory")
		}
	}
	return tr, nil
}

// Duration returns the timestamp of the final sample in seconds.
func (tr *Track) Duration() float64 {
	return tr.duration
}

// Len returns the number of samples in the track.
func (tr *Track) Len() int {
	return len(tr.samples)
}

// InitialPose returns the pose of the first sample, for aligning odometry to
// the trajectory before tracking begins.
func (tr *Track) InitialPose() spatialmath.Pose2D {
	return tr.samples[0].Pose
}

// Final returns the last sample of the track.
func (tr *Track) Final() Sample {
	return tr.samples[len(tr.samples)-1]
}

// SampleAt returns the trajectory state at elapsed time t seconds. Times at
// or before zero yield the first sample and times at or beyond the duration
// yield the last; in between, position, headings, velocity and curvature are
// linearly interpolated between the bracketing samples, with headings taking
// the shortest arc.
func (tr *Track) SampleAt(t float64) Sample {
	if t <= 0 || len(tr.samples) == 1 {
		return tr.samples[0]
	}
	if t >= tr.duration {
		return tr.samples[len(tr.samples)-1]
	}
	return Sample{
		T: t,
		Pose: spatialmath.Pose2D{
			Point: r2.Point{X: tr.x.Predict(t), Y: tr.y.Predict(t)},
			Theta: spatialmath.WrapAngle(tr.theta.Predict(t)),
		},
		Facing:    spatialmath.WrapAngle(tr.facing.Predict(t)),
		Velocity:  tr.velocity.Predict(t),
		Curvature: tr.curvature.Predict(t),
	}
}
