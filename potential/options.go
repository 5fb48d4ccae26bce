package potential

import (
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/apf/descent"
)

// Defaults (single source of truth).
const (
	// DefaultMinVel is the magnitude at the outer edge of a deceleration or falloff zone.
	DefaultMinVel = 2.0
	// DefaultMaxVel is the magnitude at the goal or obstacle centre.
	DefaultMaxVel = 40.0
	// DefaultFarMagnitude is the attractive magnitude outside the goal radius.
	DefaultFarMagnitude = 15.0
	// DefaultFalloffFactor multiplies the obstacle width to get the repulsion radius.
	DefaultFalloffFactor = 1.5
	// DefaultMaxMagnitude is the combined-field clamp.
	DefaultMaxMagnitude = descent.DefaultMaxMagnitude
	// DefaultEpsilon is the magnitude floor of the combined-field clamp.
	DefaultEpsilon = descent.DefaultEpsilon
	// DefaultSourceEpsilon is the magnitude floor in the builders, guarding the
	// goal cell and obstacle centre against division by zero.
	DefaultSourceEpsilon = 1e-7
)

const (
	panicVelInvalid         = "potential: WithVelocityBounds: need finite 0 <= min <= max"
	panicFarInvalid         = "potential: WithFarMagnitude: magnitude must be finite and >= 0"
	panicFalloffInvalid     = "potential: WithFalloffFactor: factor must be finite and > 0"
	panicClampInvalid       = "potential: WithMaxMagnitude: bound must be finite and > 0"
	panicStartRadiusInvalid = "potential: WithStartRadius: radius must be finite and >= 0"
	panicWorkersInvalid     = "potential: WithWorkers: need at least one worker"
)

// Options configures field construction and the planning session.
type Options struct {
	MinVel, MaxVel float64
	FarMagnitude   float64
	FalloffFactor  float64
	MaxMagnitude   float64
	Epsilon        float64
	SourceEpsilon  float64

	// StartRadius is informational; it is reported with planning results.
	StartRadius float64

	// Path following, forwarded to descent.
	EscapeCoefficient float64
	VirtualForce      bool
	StepDelay         time.Duration
	MaxSteps          int

	// Workers bounds parallel obstacle-field construction.
	Workers int
	Logger  *zap.Logger

	// BuildHook, when set, is called once per repulsive field actually built,
	// possibly from several goroutines at once.
	BuildHook func(obstacleID int)
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MinVel:            DefaultMinVel,
		MaxVel:            DefaultMaxVel,
		FarMagnitude:      DefaultFarMagnitude,
		FalloffFactor:     DefaultFalloffFactor,
		MaxMagnitude:      DefaultMaxMagnitude,
		Epsilon:           DefaultEpsilon,
		SourceEpsilon:     DefaultSourceEpsilon,
		EscapeCoefficient: descent.DefaultEscapeCoefficient,
		VirtualForce:      true,
		StepDelay:         descent.DefaultStepDelay,
		MaxSteps:          descent.DefaultMaxSteps,
		Workers:           runtime.GOMAXPROCS(0),
		Logger:            zap.NewNop(),
	}
}

// gather applies opts over the defaults.
func gather(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// WithVelocityBounds sets MinVel and MaxVel.
func WithVelocityBounds(minVel, maxVel float64) Option {
	if !finite(minVel) || !finite(maxVel) || minVel < 0 || maxVel < minVel {
		panic(panicVelInvalid)
	}
	return func(o *Options) { o.MinVel, o.MaxVel = minVel, maxVel }
}

// WithFarMagnitude sets the attractive magnitude outside the goal radius.
func WithFarMagnitude(m float64) Option {
	if !finite(m) || m < 0 {
		panic(panicFarInvalid)
	}
	return func(o *Options) { o.FarMagnitude = m }
}

// WithFalloffFactor sets the obstacle falloff multiplier.
func WithFalloffFactor(k float64) Option {
	if !finite(k) || k <= 0 {
		panic(panicFalloffInvalid)
	}
	return func(o *Options) { o.FalloffFactor = k }
}

// WithStartRadius records the start marker radius.
func WithStartRadius(r float64) Option {
	if !finite(r) || r < 0 {
		panic(panicStartRadiusInvalid)
	}
	return func(o *Options) { o.StartRadius = r }
}

// WithMaxMagnitude sets the combined-field clamp.
func WithMaxMagnitude(m float64) Option {
	if !finite(m) || m <= 0 {
		panic(panicClampInvalid)
	}
	return func(o *Options) { o.MaxMagnitude = m }
}

// WithEscapeCoefficient sets the virtual escape force coefficient (fcf).
func WithEscapeCoefficient(k float64) Option {
	descent.WithEscapeCoefficient(k) // validates
	return func(o *Options) { o.EscapeCoefficient = k }
}

// WithVirtualForce toggles escape forces on stuck cells.
func WithVirtualForce(on bool) Option {
	return func(o *Options) { o.VirtualForce = on }
}

// WithStepDelay sets the pacing delay between moving steps (0 disables pacing).
func WithStepDelay(d time.Duration) Option {
	descent.WithStepDelay(d)
	return func(o *Options) { o.StepDelay = d }
}

// WithMaxSteps sets the path-following guard (0 disables it).
func WithMaxSteps(n int) Option {
	descent.WithMaxSteps(n)
	return func(o *Options) { o.MaxSteps = n }
}

// WithWorkers bounds parallel obstacle-field construction.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the session logger. nil installs a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.Logger = l
	}
}

// WithBuildHook registers a callback fired for every repulsive field built.
func WithBuildHook(fn func(obstacleID int)) Option {
	return func(o *Options) { o.BuildHook = fn }
}

// followerOptions projects the descent subset of o.
func (o Options) followerOptions(l *zap.Logger) []descent.Option {
	return []descent.Option{
		descent.WithMaxMagnitude(o.MaxMagnitude),
		descent.WithEscapeCoefficient(o.EscapeCoefficient),
		descent.WithVirtualForce(o.VirtualForce),
		descent.WithStepDelay(o.StepDelay),
		descent.WithMaxSteps(o.MaxSteps),
		descent.WithLogger(l),
	}
}
