package descent

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/katalvlaran/apf/vecfield"
	"github.com/katalvlaran/apf/workspace"
)

// Result is what a run hands back to the caller. Path is read-only.
type Result struct {
	State      State
	Path       Path
	Goal       *Waypoint // last waypoint when State == GoalReached, else nil
	Steps      int
	StuckCount int
}

// Follower performs discrete gradient descent over a combined field.
// It mutates the field when applying escape forces, so the field must not be
// shared with concurrent readers while a Follower runs.
type Follower struct {
	field  *vecfield.Field
	ws     workspace.Workspace
	goal   workspace.Pose
	radius float64
	signal *Signal
	opts   Options

	path       Path
	cur        *Waypoint
	state      State
	steps      int
	stuckCount int
	limiter    *rate.Limiter
}

// New creates a follower positioned on start with path = [start].
// signal may be nil, in which case the follower owns a private one.
//
// Validation order: field → radius → start → goal.
func New(field *vecfield.Field, start, goal workspace.Pose, radius float64, signal *Signal, opts ...Option) (*Follower, error) {
	if field == nil {
		return nil, ErrNilField
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: %g", ErrBadRadius, radius)
	}
	ws := workspace.Workspace{Width: field.Width(), Height: field.Height()}
	if err := start.Validate(ws); err != nil {
		return nil, fmt.Errorf("descent: start: %w", err)
	}
	if err := goal.Validate(ws); err != nil {
		return nil, fmt.Errorf("descent: goal: %w", err)
	}

	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if signal == nil {
		signal = &Signal{}
	}

	root := &Waypoint{X: start.X, Y: start.Y, Seq: 0, Tag: TagPotentialField}
	f := &Follower{
		field:  field,
		ws:     ws,
		goal:   goal,
		radius: radius,
		signal: signal,
		opts:   cfg,
		path:   Path{root},
		cur:    root,
		state:  Running,
	}
	if cfg.StepDelay > 0 {
		f.limiter = rate.NewLimiter(rate.Every(cfg.StepDelay), 1)
	}

	return f, nil
}

// State returns the status produced by the last Step.
func (f *Follower) State() State { return f.state }

// Current returns the waypoint the agent occupies.
func (f *Follower) Current() *Waypoint { return f.cur }

// Path returns a copy of the path built so far.
func (f *Follower) Path() Path { return f.path.Clone() }

// Result snapshots the follower's progress.
func (f *Follower) Result() Result {
	r := Result{State: f.state, Path: f.path.Clone(), Steps: f.steps, StuckCount: f.stuckCount}
	if f.state == GoalReached {
		r.Goal = f.cur
	}

	return r
}

// Step performs one iteration and returns the resulting state. Once a
// terminal state is reached further calls are no-ops.
//
//  1. Signal set → clear it, Aborted.
//  2. Step guard reached → ExceededMaxSteps.
//  3. Sample the field at the current cell; candidate = trunc(current + v),
//     clamped into the workspace.
//  4. Candidate == current → stuck: add the escape force and re-clamp.
//  5. Append the candidate waypoint and advance.
//  6. Squared distance to goal < radius² → GoalReached.
func (f *Follower) Step() State {
	if f.state.Terminal() {
		return f.state
	}
	if f.signal.TestAndClear() {
		f.state = Aborted
		return f.state
	}
	if f.opts.MaxSteps > 0 && f.steps >= f.opts.MaxSteps {
		f.state = ExceededMaxSteps
		return f.state
	}

	cur := f.cur
	v := f.field.Get(cur.X, cur.Y)
	rawX := int(float64(cur.X) + v.X) // truncation toward zero, as grid indexing
	rawY := int(float64(cur.Y) + v.Y)
	nx, ny := f.ws.Clamp(rawX, rawY)

	if nx == cur.X && ny == cur.Y {
		f.stuckCount++
		f.state = StuckRecovery
		if f.opts.VirtualForce {
			f.escape(cur, v, rawX != nx || rawY != ny)
		}
	} else {
		f.state = Running
	}

	next := &Waypoint{X: nx, Y: ny, Seq: len(f.path), Parent: cur, Tag: TagPotentialField}
	f.path = append(f.path, next)
	f.cur = next
	f.steps++

	if float64(next.Pose().DistSq(f.goal)) < f.radius*f.radius {
		f.state = GoalReached
	}

	return f.state
}

// escape adds the virtual force to the stuck cell and re-clamps the field.
//
// With θ the heading of the pre-step vector v, the force is
//
//	fcf · (|vx|·cos θ, |vy|·sin θ)
//
// When v is degenerate, or the step was cut by the workspace border, θ is the
// heading toward the goal and the force is fcf · max(|v|, 1) · (cos θ, sin θ).
func (f *Follower) escape(cur *Waypoint, v vecfield.Vec, clipped bool) {
	fcf := f.opts.EscapeCoefficient
	mag := v.Len()
	theta := math.Atan2(v.Y, v.X)
	force := vecfield.Vec{X: fcf * math.Abs(v.X) * math.Cos(theta), Y: fcf * math.Abs(v.Y) * math.Sin(theta)}
	if mag < f.opts.Epsilon || clipped {
		theta = math.Atan2(float64(f.goal.Y-cur.Y), float64(f.goal.X-cur.X))
		k := fcf * math.Max(mag, 1)
		force = vecfield.Vec{X: k * math.Cos(theta), Y: k * math.Sin(theta)}
	}

	if err := f.field.AddAt(cur.X, cur.Y, force); err != nil {
		f.opts.Logger.Warn("escape force rejected", zap.Error(err))
		return
	}
	f.field.Clamp(f.opts.MaxMagnitude, f.opts.Epsilon)

	f.opts.Logger.Debug("stuck, escape force applied",
		zap.Int("x", cur.X), zap.Int("y", cur.Y),
		zap.Float64("theta", theta), zap.Float64("force", force.Len()),
		zap.Bool("clipped", clipped))
}

// Run steps until a terminal state. Moving steps are paced by StepDelay.
// Stuck steps are paced only when the virtual force is off. Context cancellation is observed between iterations
// and yields Aborted together with the context error.
func (f *Follower) Run(ctx context.Context) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			f.state = Aborted
			return f.Result(), err
		}
		st := f.Step()
		if st.Terminal() {
			f.opts.Logger.Debug("path following finished",
				zap.Stringer("state", st),
				zap.Int("steps", f.steps),
				zap.Int("stuck", f.stuckCount))
			return f.Result(), nil
		}
		if f.limiter != nil && (st == Running || !f.opts.VirtualForce) {
			if err := f.limiter.Wait(ctx); err != nil {
				f.state = Aborted
				return f.Result(), err
			}
		}
	}
}
