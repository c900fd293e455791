// Package control implements the feedback loops for holonomic trajectory
// tracking: independent PID position loops per axis, a velocity/acceleration
// bounded rotational loop, and the holonomic controller that composes them
// into a planar velocity command.
package control

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/swervelabs/pathtrack/spatialmath"
)

// PIDConfig holds the gains and limits for one position loop.
type PIDConfig struct {
	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`
	// MaxOutput bounds the magnitude of the loop output; zero means unbounded.
	MaxOutput float64 `json:"max_output,omitempty"`
	// MaxIntegral bounds the integrator to limit windup; zero means unbounded.
	MaxIntegral float64 `json:"max_integral,omitempty"`
}

// Validate checks the config, aggregating all field errors.
func (cfg PIDConfig) Validate(path string) error {
	var err error
	if cfg.P < 0 || cfg.I < 0 || cfg.D < 0 {
		err = multierr.Append(err, errors.Errorf("%s: gains must be non-negative", path))
	}
	if cfg.MaxOutput < 0 {
		err = multierr.Append(err, errors.Errorf("%s: max_output must be non-negative", path))
	}
	if cfg.MaxIntegral < 0 {
		err = multierr.Append(err, errors.Errorf("%s: max_integral must be non-negative", path))
	}
	return err
}

// PID is a discrete proportional-integral-derivative position loop. A
// continuous-input PID treats setpoint and measurement as angles and wraps
// the error to the shortest arc in (-pi, pi] before the loop sees it.
//
// The loop retains integrator and derivative memory between calls; use Reset
// before reusing it for an unrelated trajectory.
type PID struct {
	cfg        PIDConfig
	continuous bool
	integral   float64
	lastErr    float64
	hasLast    bool
}

// NewPID returns a position loop with the given gains.
func NewPID(cfg PIDConfig) (*PID, error) {
	if err := cfg.Validate("pid"); err != nil {
		return nil, err
	}
	return &PID{cfg: cfg}, nil
}

// NewContinuousPID returns an angle loop: errors wrap at +/-pi.
func NewContinuousPID(cfg PIDConfig) (*PID, error) {
	p, err := NewPID(cfg)
	if err != nil {
		return nil, err
	}
	p.continuous = true
	return p, nil
}

// Output advances the loop by dt and returns the correction for the given
// setpoint and measurement. A non-positive dt degrades the loop to pure
// proportional output for that step: the integrator holds and the derivative
// term is skipped.
func (p *PID) Output(setpoint, measured float64, dt time.Duration) float64 {
	errVal := setpoint - measured
	if p.continuous {
		errVal = spatialmath.WrapAngle(errVal)
	}
	dtS := dt.Seconds()

	if dtS > 0 {
		p.integral += p.cfg.I * errVal * dtS
		p.integral = clampMagnitude(p.integral, p.cfg.MaxIntegral)
	}

	var deriv float64
	if p.hasLast && dtS > 0 {
		dErr := errVal - p.lastErr
		if p.continuous {
			dErr = spatialmath.WrapAngle(dErr)
		}
		deriv = dErr / dtS
	}
	p.lastErr = errVal
	p.hasLast = true

	return clampMagnitude(p.cfg.P*errVal+p.integral+p.cfg.D*deriv, p.cfg.MaxOutput)
}

// Reset clears the integrator and derivative memory.
func (p *PID) Reset() {
	p.integral = 0
	p.lastErr = 0
	p.hasLast = false
}

// clampMagnitude limits v to [-limit, limit]; a zero limit means unbounded.
func clampMagnitude(v, limit float64) float64 {
	if limit > 0 && math.Abs(v) > limit {
		return math.Copysign(limit, v)
	}
	return v
}
