package main

import (
	"context"
	"time"

	"github.com/edaniels/golog"

	"github.com/swervelabs/pathtrack/spatialmath"
)

// simBase is a kinematic stand-in for a holonomic chassis plus odometry: it
// integrates each commanded velocity over one control period to advance its
// pose. Commands are in the field frame, so integration is direct.
type simBase struct {
	pose   spatialmath.Pose2D
	period time.Duration
	logger golog.Logger
	ticks  int
}

func newSimBase(initial spatialmath.Pose2D, period time.Duration, logger golog.Logger) *simBase {
	return &simBase{pose: initial, period: period, logger: logger}
}

// CurrentPose is the pose supplier side of the simulated base.
func (b *simBase) CurrentPose(context.Context) (spatialmath.Pose2D, error) {
	return b.pose, nil
}

// SetVelocity is the velocity sink side: it applies cmd for one period.
func (b *simBase) SetVelocity(_ context.Context, cmd spatialmath.Velocity2D) error {
	dt := b.period.Seconds()
	b.pose.Point.X += cmd.Linear.X * dt
	b.pose.Point.Y += cmd.Linear.Y * dt
	b.pose.Theta = spatialmath.WrapAngle(b.pose.Theta + cmd.Angular*dt)
	b.ticks++
	if b.ticks%25 == 0 {
		b.logger.Debugw("sim base pose",
			"x", b.pose.Point.X,
			"y", b.pose.Point.Y,
			"theta", b.pose.Theta,
		)
	}
	return nil
}
