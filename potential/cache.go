package potential

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/apf/vecfield"
	"github.com/katalvlaran/apf/workspace"
)

// shaping holds the options a repulsive field depends on.
type shaping struct {
	minVel, maxVel, falloff, eps float64
}

func shapingOf(o Options) shaping {
	return shaping{minVel: o.MinVel, maxVel: o.MaxVel, falloff: o.FalloffFactor, eps: o.SourceEpsilon}
}

// entry pairs a built field with the inputs it was built from.
type entry struct {
	obstacle workspace.Obstacle
	shaping  shaping
	field    *vecfield.Field
}

// Cache maps obstacle IDs to their repulsive fields. A field is rebuilt only
// when its ID is missing, or when the ID now names different geometry, a
// different workspace or different velocity/falloff options. Cached fields are
// never mutated.
//
// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[int]entry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[int]entry)}
}

// Len returns the number of cached fields.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Has reports whether a field for id is cached.
func (c *Cache) Has(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]

	return ok
}

// Invalidate drops the fields of the given IDs. Unknown IDs are ignored.
func (c *Cache) Invalidate(ids ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
	}
}

// Retain drops every field whose ID is not in keep and returns how many were dropped.
func (c *Cache) Retain(keep []int) int {
	set := make(map[int]struct{}, len(keep))
	for _, id := range keep {
		set[id] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for id := range c.entries {
		if _, ok := set[id]; !ok {
			delete(c.entries, id)
			dropped++
		}
	}

	return dropped
}

// Reset empties the cache.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[int]entry)
	c.mu.Unlock()
}

// lookup returns the cached field for o if it is still valid for ws and sh.
func (c *Cache) lookup(ws workspace.Workspace, o workspace.Obstacle, sh shaping) (*vecfield.Field, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[o.ID]
	if !ok || e.obstacle != o || e.shaping != sh || e.field.Width() != ws.Width || e.field.Height() != ws.Height {
		return nil, false
	}

	return e.field, true
}

// GetOrBuild returns one repulsive field per obstacle, in input order. Misses are
// built concurrently with at most opts.Workers goroutines and stored before
// returning. The first build error cancels the remaining builds; nothing is
// stored in that case.
func (c *Cache) GetOrBuild(ctx context.Context, ws workspace.Workspace, obstacles workspace.Obstacles, opts ...Option) ([]*vecfield.Field, error) {
	cfg := gather(opts)
	sh := shapingOf(cfg)
	out := make([]*vecfield.Field, len(obstacles))
	var misses []int
	for i, o := range obstacles {
		if f, ok := c.lookup(ws, o, sh); ok {
			out[i] = f
			continue
		}
		misses = append(misses, i)
	}
	if len(misses) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, i := range misses {
		o := obstacles[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := Repulsive(ws, o, opts...)
			if err != nil {
				return err
			}
			if cfg.BuildHook != nil {
				cfg.BuildHook(o.ID)
			}
			out[i] = f // distinct index per goroutine
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("potential: building obstacle fields: %w", err)
	}

	c.mu.Lock()
	for _, i := range misses {
		c.entries[obstacles[i].ID] = entry{obstacle: obstacles[i], shaping: sh, field: out[i]}
	}
	c.mu.Unlock()

	return out, nil
}
