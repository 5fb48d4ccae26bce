// SPDX-License-Identifier: MIT

package potential

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/apf/descent"
	"github.com/katalvlaran/apf/vecfield"
	"github.com/katalvlaran/apf/workspace"
)

// Planner is one planning session over a fixed workspace.
//
// Start, Begin, Plan, Prepare, Field and Path belong to the goroutine driving
// the session.
// SetObstacles, UpdatePose, ForgetObstacles, Prune and Invalidate may be
// called from any goroutine.
type Planner struct {
	id     string
	ws     workspace.Workspace
	cfg    Options
	log    *zap.Logger
	cache  *Cache
	signal descent.Signal

	mu        sync.Mutex // guards the fields below
	start     workspace.Pose
	goal      workspace.Pose
	radius    float64
	obstacles workspace.Obstacles
	field     *vecfield.Field
	result    descent.Result
}

// Inputs is the planning input of one run, captured by Begin.
type Inputs struct {
	Start, Goal workspace.Pose
	Radius      float64
	Obstacles   workspace.Obstacles
}

// New validates the inputs and returns an idle session.
func New(
	ws workspace.Workspace,
	start, goal workspace.Pose,
	radius float64,
	obstacles workspace.Obstacles,
	opts ...Option,
) (*Planner, error) {
	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("potential: New: %w", err)
	}
	if err := start.Validate(ws); err != nil {
		return nil, fmt.Errorf("potential: New: start: %w", err)
	}
	if err := goal.Validate(ws); err != nil {
		return nil, fmt.Errorf("potential: New: goal: %w", err)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("potential: New: %w", ErrBadRadius)
	}
	if err := obstacles.Validate(); err != nil {
		return nil, fmt.Errorf("potential: New: %w", err)
	}

	cfg := gather(opts)
	id := uuid.NewString()

	return &Planner{
		id:        id,
		ws:        ws,
		cfg:       cfg,
		log:       cfg.Logger.With(zap.String("session", id)),
		cache:     NewCache(),
		start:     start,
		goal:      goal,
		radius:    radius,
		obstacles: append(workspace.Obstacles(nil), obstacles...),
	}, nil
}

// SessionID returns the session's UUID.
func (p *Planner) SessionID() string { return p.id }

// Workspace returns the session's workspace.
func (p *Planner) Workspace() workspace.Workspace { return p.ws }

// Signal returns the session's invalidation flag.
func (p *Planner) Signal() *descent.Signal { return &p.signal }

// StartRadius returns the start marker radius supplied via WithStartRadius.
func (p *Planner) StartRadius() float64 { return p.cfg.StartRadius }

// Cache exposes the obstacle-field cache.
func (p *Planner) Cache() *Cache { return p.cache }

// Invalidate asks an in-flight Start to stop at its next iteration.
func (p *Planner) Invalidate() { p.signal.Set() }

// UpdatePose replaces start and goal. Nothing is recomputed until the next Start.
func (p *Planner) UpdatePose(start, goal workspace.Pose) error {
	if err := start.Validate(p.ws); err != nil {
		return fmt.Errorf("potential: UpdatePose: start: %w", err)
	}
	if err := goal.Validate(p.ws); err != nil {
		return fmt.Errorf("potential: UpdatePose: goal: %w", err)
	}
	p.mu.Lock()
	p.start, p.goal = start, goal
	p.mu.Unlock()

	return nil
}

// Poses returns the current start and goal.
func (p *Planner) Poses() (start, goal workspace.Pose) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.start, p.goal
}

// SetObstacles replaces the obstacle list. The cache and the invalidation flag
// are left alone; call Invalidate to interrupt a running Start.
func (p *Planner) SetObstacles(obstacles workspace.Obstacles) error {
	if err := obstacles.Validate(); err != nil {
		return fmt.Errorf("potential: SetObstacles: %w", err)
	}
	p.mu.Lock()
	p.obstacles = append(workspace.Obstacles(nil), obstacles...)
	p.mu.Unlock()

	return nil
}

// Obstacles returns a copy of the obstacle list.
func (p *Planner) Obstacles() workspace.Obstacles {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append(workspace.Obstacles(nil), p.obstacles...)
}

// ForgetObstacles drops the cached fields of ids.
func (p *Planner) ForgetObstacles(ids ...int) { p.cache.Invalidate(ids...) }

// Prune drops cached fields of obstacles no longer in the list and returns
// how many were dropped.
func (p *Planner) Prune() int {
	return p.cache.Retain(p.Obstacles().IDs())
}

// Field returns the combined field of the last Prepare or Start. Start mutates
// it in place when escape forces are applied.
func (p *Planner) Field() *vecfield.Field {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.field
}

// Path returns a copy of the last planned path.
func (p *Planner) Path() descent.Path {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.result.Path.Clone()
}

// Result returns the outcome of the last Start.
func (p *Planner) Result() descent.Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.result
}

func (p *Planner) inputs() Inputs {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Inputs{
		Start:     p.start,
		Goal:      p.goal,
		Radius:    p.radius,
		Obstacles: append(workspace.Obstacles(nil), p.obstacles...),
	}
}

// Prepare builds the goal field, fills cache misses and stores the combined
// field. It does not follow the field.
func (p *Planner) Prepare(ctx context.Context) error {
	_, err := p.prepare(ctx, p.inputs())

	return err
}

func (p *Planner) prepare(ctx context.Context, s Inputs) (*vecfield.Field, error) {
	began := time.Now()
	goalField, err := Attractive(p.ws, s.Goal, s.Radius, p.options()...)
	if err != nil {
		return nil, err
	}
	p.log.Debug("goal field built", zap.Stringer("goal", s.Goal), zap.Float64("radius", s.Radius))

	cached := p.cache.Len()
	repulsive, err := p.cache.GetOrBuild(ctx, p.ws, s.Obstacles, p.options()...)
	if err != nil {
		return nil, err
	}

	field, err := Combine(goalField, repulsive, p.cfg.MaxMagnitude, p.cfg.Epsilon)
	if err != nil {
		return nil, err
	}
	p.log.Debug("field combined",
		zap.Int("obstacles", len(s.Obstacles)),
		zap.Int("cached_before", cached),
		zap.Duration("elapsed", time.Since(began)),
	)

	p.mu.Lock()
	p.field = field
	p.mu.Unlock()

	return field, nil
}

// Start runs one planning cycle: Begin, then Plan with the captured inputs.
func (p *Planner) Start(ctx context.Context) (descent.Result, error) {
	return p.Plan(ctx, p.Begin())
}

// Begin clears the invalidation flag and captures the current poses, radius
// and obstacles. An Invalidate issued after Begin returns aborts the Plan
// that consumes these inputs.
func (p *Planner) Begin() Inputs {
	p.signal.Clear()

	return p.inputs()
}

// Plan builds the fields for in, normally the value returned by Begin, and
// follows the combined field from in.Start until a terminal state.
//
// Invalidate, a cancelled ctx or a failed pacing wait end the cycle with
// descent.Aborted. Field construction errors are returned with a zero Result.
func (p *Planner) Plan(ctx context.Context, in Inputs) (descent.Result, error) {
	field, err := p.prepare(ctx, in)
	if err != nil {
		return descent.Result{}, fmt.Errorf("potential: Plan: %w", err)
	}

	f, err := descent.New(field, in.Start, in.Goal, in.Radius, &p.signal, p.cfg.followerOptions(p.log)...)
	if err != nil {
		return descent.Result{}, fmt.Errorf("potential: Plan: %w", err)
	}

	res, runErr := f.Run(ctx)

	p.mu.Lock()
	p.result = res
	p.mu.Unlock()

	p.log.Info("planning finished",
		zap.Stringer("state", res.State),
		zap.Int("steps", res.Steps),
		zap.Int("waypoints", res.Path.Len()),
		zap.Int("stuck", res.StuckCount),
		zap.Float64("start_radius", p.cfg.StartRadius),
	)

	return res, runErr
}

// options re-expresses p.cfg as Option values for the builders.
func (p *Planner) options() []Option {
	cfg := p.cfg
	return []Option{func(o *Options) { *o = cfg }}
}
