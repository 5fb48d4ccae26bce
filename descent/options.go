package descent

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// Defaults for the follower.
const (
	// DefaultMaxMagnitude bounds the combined field after an escape force.
	DefaultMaxMagnitude = 25.0
	// DefaultEpsilon is the magnitude floor used before normalising.
	DefaultEpsilon = 1e-6
	// DefaultEscapeCoefficient scales the virtual escape force (fcf).
	DefaultEscapeCoefficient = 5.0
	// DefaultStepDelay paces Run between moving steps.
	DefaultStepDelay = 20 * time.Millisecond
	// DefaultMaxSteps bounds Run; the escape heuristic does not guarantee termination.
	DefaultMaxSteps = 10000
)

const (
	panicMagnitudeInvalid = "descent: WithMaxMagnitude: bound must be finite and > 0"
	panicEscapeInvalid    = "descent: WithEscapeCoefficient: coefficient must be finite and >= 0"
	panicDelayInvalid     = "descent: WithStepDelay: delay must be >= 0"
	panicMaxStepsInvalid  = "descent: WithMaxSteps: steps must be >= 0"
)

// Options configures a Follower.
type Options struct {
	MaxMagnitude      float64       // re-clamp bound after an escape force
	Epsilon           float64       // magnitude floor before normalising
	EscapeCoefficient float64       // fcf
	VirtualForce      bool          // apply escape forces when stuck
	StepDelay         time.Duration // pause between steps in Run; 0 disables pacing
	MaxSteps          int           // 0 means unbounded
	Logger            *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxMagnitude:      DefaultMaxMagnitude,
		Epsilon:           DefaultEpsilon,
		EscapeCoefficient: DefaultEscapeCoefficient,
		VirtualForce:      true,
		StepDelay:         DefaultStepDelay,
		MaxSteps:          DefaultMaxSteps,
		Logger:            zap.NewNop(),
	}
}

// WithMaxMagnitude sets the re-clamp bound. Panics on non-positive values.
func WithMaxMagnitude(m float64) Option {
	if !(m > 0) || math.IsInf(m, 0) {
		panic(panicMagnitudeInvalid)
	}
	return func(o *Options) { o.MaxMagnitude = m }
}

// WithEscapeCoefficient sets fcf. Panics on negative values.
func WithEscapeCoefficient(k float64) Option {
	if !(k >= 0) || math.IsInf(k, 0) {
		panic(panicEscapeInvalid)
	}
	return func(o *Options) { o.EscapeCoefficient = k }
}

// WithVirtualForce toggles escape forces. When disabled stuck steps are still
// recorded, and paced like moving steps, but the field is left untouched.
func WithVirtualForce(on bool) Option {
	return func(o *Options) { o.VirtualForce = on }
}

// WithStepDelay sets the pacing delay between steps.
func WithStepDelay(d time.Duration) Option {
	if d < 0 {
		panic(panicDelayInvalid)
	}
	return func(o *Options) { o.StepDelay = d }
}

// WithMaxSteps sets the step guard; 0 disables it.
func WithMaxSteps(n int) Option {
	if n < 0 {
		panic(panicMaxStepsInvalid)
	}
	return func(o *Options) { o.MaxSteps = n }
}

// WithLogger sets the logger. A nil logger is replaced by a no-op one.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.Logger = l
	}
}
