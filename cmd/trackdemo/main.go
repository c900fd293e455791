// Package main follows a trajectory with a simulated holonomic base,
// printing the tracking error as it goes. It stands in for a host robot
// program: it aligns odometry to the trajectory's initial pose, drives a
// tracking session at a fixed control period, and commands the final stop
// itself once the session reports completion.
package main

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/swervelabs/pathtrack/control"
	"github.com/swervelabs/pathtrack/spatialmath"
	"github.com/swervelabs/pathtrack/tracking"
	"github.com/swervelabs/pathtrack/trajectory"
)

var logger = golog.NewDevelopmentLogger("trackdemo")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"config,usage=path to a JSON gains/trajectory config"`
	PeriodMS   int    `flag:"period,default=20,usage=control period in milliseconds"`
}

// demoConfig is the on-disk shape of a demo run: controller gains plus the
// trajectory to follow.
type demoConfig struct {
	Controller control.Config `json:"controller"`
	Trajectory []sampleConfig `json:"trajectory"`
}

type sampleConfig struct {
	T         float64 `json:"t"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Heading   float64 `json:"heading"`
	Facing    float64 `json:"facing"`
	Velocity  float64 `json:"velocity"`
	Curvature float64 `json:"curvature,omitempty"`
}

func (cfg *demoConfig) Validate(path string) error {
	if err := cfg.Controller.Validate(path + ".controller"); err != nil {
		return err
	}
	if len(cfg.Trajectory) == 0 {
		return errors.Errorf("%s.trajectory: must not be empty", path)
	}
	return nil
}

func defaultConfig() demoConfig {
	return demoConfig{
		Controller: control.Config{
			AlongTrack: control.PIDConfig{P: 2, MaxOutput: 1},
			CrossTrack: control.PIDConfig{P: 2, MaxOutput: 1},
			Heading: control.ProfileConfig{
				PID:             control.PIDConfig{P: 3},
				MaxVelocity:     math.Pi,
				MaxAcceleration: 2 * math.Pi,
			},
		},
		// a 4s L-shaped path that ends facing east
		Trajectory: []sampleConfig{
			{T: 0, X: 0, Y: 0, Heading: 0, Facing: 0, Velocity: 0},
			{T: 1, X: 0.5, Y: 0, Heading: 0, Facing: 0, Velocity: 0.5},
			{T: 2, X: 1, Y: 0.25, Heading: math.Pi / 4, Facing: 0, Velocity: 0.5},
			{T: 3, X: 1.25, Y: 0.75, Heading: math.Pi / 2, Facing: 0, Velocity: 0.5},
			{T: 4, X: 1.25, Y: 1.25, Heading: math.Pi / 2, Facing: 0, Velocity: 0},
		},
	}
}

func loadConfig(path string) (demoConfig, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	var cfg demoConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate("config"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	cfg, err := loadConfig(argsParsed.ConfigFile)
	if err != nil {
		return err
	}

	samples := make([]trajectory.Sample, 0, len(cfg.Trajectory))
	for _, s := range cfg.Trajectory {
		samples = append(samples, trajectory.Sample{
			T:         s.T,
			Pose:      spatialmath.NewPose2D(s.X, s.Y, s.Heading),
			Facing:    spatialmath.WrapAngle(s.Facing),
			Velocity:  s.Velocity,
			Curvature: s.Curvature,
		})
	}
	track, err := trajectory.NewTrack(samples)
	if err != nil {
		return err
	}
	controller, err := control.NewHolonomic(cfg.Controller)
	if err != nil {
		return err
	}

	period := time.Duration(argsParsed.PeriodMS) * time.Millisecond
	base := newSimBase(track.InitialPose(), period, logger)
	session, err := tracking.NewSession(track, controller, base.CurrentPose, base.SetVelocity, logger)
	if err != nil {
		return err
	}

	logger.Infow("following trajectory",
		"samples", track.Len(),
		"duration_sec", track.Duration(),
		"period", period,
	)
	if err := session.Follow(ctx, period); err != nil {
		return err
	}

	// the session leaves the chassis at its terminal velocity; the host
	// decides to park it
	if err := base.SetVelocity(ctx, spatialmath.Velocity2D{}); err != nil {
		return err
	}

	final, err := base.CurrentPose(ctx)
	if err != nil {
		return err
	}
	goal := track.Final().Pose
	logger.Infow("trajectory complete",
		"x_err_m", goal.Point.X-final.Point.X,
		"y_err_m", goal.Point.Y-final.Point.Y,
		"heading_err_rad", spatialmath.AngleDiff(final.Theta, track.Final().Facing),
	)
	return nil
}
