package tracking

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/swervelabs/pathtrack/control"
	"github.com/swervelabs/pathtrack/spatialmath"
	"github.com/swervelabs/pathtrack/trajectory"
)

// PoseSupplier returns the current pose estimate. It is called once per tick
// and must not block.
type PoseSupplier func(ctx context.Context) (spatialmath.Pose2D, error)

// HeadingSupplier returns the facing the chassis should hold. It is called
// once per tick and must not block.
type HeadingSupplier func(ctx context.Context) (float64, error)

// VelocitySink accepts the commanded velocity for actuation. It must not
// block.
type VelocitySink func(ctx context.Context, cmd spatialmath.Velocity2D) error

type sessionState int

const (
	stateIdle sessionState = iota
	stateRunning
	stateStopped
	stateFinished
)

func (s sessionState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateRunning:
		return "running"
	case stateStopped:
		return "stopped"
	case stateFinished:
		return "finished"
	}
	return "unknown"
}

var (
	// ErrNotIdle is returned by Start on a session that already started.
	ErrNotIdle = errors.New("session has already been started")
	// ErrNotRunning is returned by Tick and Stop outside the running state.
	ErrNotRunning = errors.New("session is not running")
)

// Session follows one trajectory from start to finish. It owns its track for
// its lifetime, reads pose and facing from the suppliers each tick, and
// forwards exactly one velocity command per tick to the sink. A session is
// single use: once stopped it cannot be restarted, and it must not be shared
// across goroutines.
type Session struct {
	track      *trajectory.Track
	controller *control.Holonomic
	pose       PoseSupplier
	heading    HeadingSupplier
	sink       VelocitySink
	logger     golog.Logger
	clock      clock.Clock

	watch       *Stopwatch
	state       sessionState
	lastElapsed time.Duration
}

// Option configures a Session beyond its required collaborators.
type Option func(*Session)

// WithClock substitutes the clock behind the session's stopwatch and follow
// ticker, for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithHeadingSupplier overrides the facing source. The default holds the
// trajectory's final facing constant for the whole path.
func WithHeadingSupplier(heading HeadingSupplier) Option {
	return func(s *Session) {
		s.heading = heading
	}
}

// NewSession wires a session to its collaborators. It fails fast if any
// required collaborator is missing, and resets the controller so no loop
// memory from a previous trajectory carries over.
func NewSession(
	track *trajectory.Track,
	controller *control.Holonomic,
	pose PoseSupplier,
	sink VelocitySink,
	logger golog.Logger,
	opts ...Option,
) (*Session, error) {
	if track == nil {
		return nil, errors.New("session requires a trajectory track")
	}
	if controller == nil {
		return nil, errors.New("session requires a controller")
	}
	if pose == nil {
		return nil, errors.New("session requires a pose supplier")
	}
	if sink == nil {
		return nil, errors.New("session requires a velocity sink")
	}
	if logger == nil {
		return nil, errors.New("session requires a logger")
	}

	s := &Session{
		track:      track,
		controller: controller,
		pose:       pose,
		sink:       sink,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.heading == nil {
		finalFacing := track.Final().Facing
		s.heading = func(context.Context) (float64, error) {
			return finalFacing, nil
		}
	}
	s.watch = NewStopwatch(s.clock)
	s.controller.Reset()
	return s, nil
}

// Start begins tracking, zeroing and starting the trajectory clock. Valid
// only on a session that has never started.
func (s *Session) Start() error {
	if s.state != stateIdle {
		return errors.Wrapf(ErrNotIdle, "cannot start in state %q", s.state)
	}
	s.watch.Reset()
	s.watch.Start()
	s.lastElapsed = 0
	s.state = stateRunning
	s.logger.Debugw("trajectory tracking started", "duration_sec", s.track.Duration())
	return nil
}

// Tick produces the velocity command for the current elapsed time: it
// samples the trajectory, reads the current pose and facing, computes the
// command, and forwards it to the sink. The command is also returned for the
// host to inspect. Valid only while running; a tick after the session
// stopped is a programming error and fails loudly.
func (s *Session) Tick(ctx context.Context) (spatialmath.Velocity2D, error) {
	var zero spatialmath.Velocity2D
	if s.state != stateRunning {
		return zero, errors.Wrapf(ErrNotRunning, "cannot tick in state %q", s.state)
	}

	elapsed := s.watch.Elapsed()
	dt := elapsed - s.lastElapsed
	s.lastElapsed = elapsed

	target := s.track.SampleAt(elapsed.Seconds())
	current, err := s.pose(ctx)
	if err != nil {
		return zero, errors.Wrap(err, "reading current pose")
	}
	facing, err := s.heading(ctx)
	if err != nil {
		return zero, errors.Wrap(err, "reading desired facing")
	}

	cmd := s.controller.Compute(current, target, facing, dt)
	if err := s.sink(ctx, cmd); err != nil {
		return zero, errors.Wrap(err, "forwarding velocity command")
	}
	return cmd, nil
}

// IsFinished reports whether the trajectory's duration has elapsed. It never
// reverts to false while the session runs, and it does not transition the
// session by itself; the host decides when to call Stop.
func (s *Session) IsFinished() bool {
	return s.watch.Elapsed().Seconds() >= s.track.Duration()
}

// Stop halts the trajectory clock and ends the session, as completed or
// interrupted. It deliberately does not command a zero velocity: some
// trajectories end at speed and chain straight into the next maneuver, so
// stopping the chassis is the host's call.
func (s *Session) Stop(interrupted bool) error {
	if s.state != stateRunning {
		return errors.Wrapf(ErrNotRunning, "cannot stop in state %q", s.state)
	}
	s.watch.Stop()
	if interrupted {
		s.state = stateStopped
	} else {
		s.state = stateFinished
	}
	s.logger.Debugw("trajectory tracking stopped",
		"interrupted", interrupted,
		"elapsed_sec", s.watch.Elapsed().Seconds(),
	)
	return nil
}

// Follow runs the whole session at a fixed control period: Start, one Tick
// per period until the trajectory's duration has elapsed or ctx is
// cancelled, then Stop. Cancellation is cooperative, taking effect between
// ticks. Like Stop, Follow leaves the chassis at whatever velocity the final
// tick commanded.
func (s *Session) Follow(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		return errors.Errorf("control period must be positive, got %v", period)
	}
	if err := s.Start(); err != nil {
		return err
	}
	ticker := s.clock.Ticker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return multierr.Combine(ctx.Err(), s.Stop(true))
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				return multierr.Combine(err, s.Stop(true))
			}
			if s.IsFinished() {
				return s.Stop(false)
			}
		}
	}
}
