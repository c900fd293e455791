package control

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ProfileConfig configures the rotational loop: PID gains plus trapezoid
// limits on the commanded angular velocity and its rate of change. A zero
// limit means unbounded.
type ProfileConfig struct {
	PID             PIDConfig `json:"pid"`
	MaxVelocity     float64   `json:"max_velocity,omitempty"`
	MaxAcceleration float64   `json:"max_acceleration,omitempty"`
}

// Validate checks the config, aggregating all field errors.
func (cfg ProfileConfig) Validate(path string) error {
	err := cfg.PID.Validate(path + ".pid")
	if cfg.MaxVelocity < 0 {
		err = multierr.Append(err, errors.Errorf("%s: max_velocity must be non-negative", path))
	}
	if cfg.MaxAcceleration < 0 {
		err = multierr.Append(err, errors.Errorf("%s: max_acceleration must be non-negative", path))
	}
	return err
}

// ProfiledPID is the rotational loop: a continuous-input PID whose output is
// clamped to a trapezoid profile, so the commanded angular velocity never
// exceeds MaxVelocity and never changes faster than MaxAcceleration allows
// between consecutive steps.
type ProfiledPID struct {
	cfg     ProfileConfig
	pid     *PID
	lastCmd float64
}

// NewProfiledPID returns a rotational loop with the given gains and limits.
func NewProfiledPID(cfg ProfileConfig) (*ProfiledPID, error) {
	if err := cfg.Validate("profile"); err != nil {
		return nil, err
	}
	pid, err := NewContinuousPID(cfg.PID)
	if err != nil {
		return nil, err
	}
	return &ProfiledPID{cfg: cfg, pid: pid}, nil
}

// Output advances the loop by dt and returns the commanded angular velocity
// toward the setpoint angle. Setpoint and measurement are angles; the error
// wraps at +/-pi.
func (p *ProfiledPID) Output(setpoint, measured float64, dt time.Duration) float64 {
	cmd := p.pid.Output(setpoint, measured, dt)
	cmd = clampMagnitude(cmd, p.cfg.MaxVelocity)
	if p.cfg.MaxAcceleration > 0 && dt > 0 {
		up := p.lastCmd + p.cfg.MaxAcceleration*dt.Seconds()
		down := p.lastCmd - p.cfg.MaxAcceleration*dt.Seconds()
		if cmd > up {
			cmd = up
		} else if cmd < down {
			cmd = down
		}
	}
	p.lastCmd = cmd
	return cmd
}

// Reset clears the loop memory, including the slew state.
func (p *ProfiledPID) Reset() {
	p.pid.Reset()
	p.lastCmd = 0
}
