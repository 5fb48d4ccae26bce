package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/apf/config"
	"github.com/katalvlaran/apf/descent"
	"github.com/katalvlaran/apf/observability"
	"github.com/katalvlaran/apf/potential"
	"github.com/katalvlaran/apf/scenario"
)

func newWatchCommand() *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "watch SCENARIO",
		Short: "Re-plan whenever the scenario file changes, printing one JSON line per run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			w, err := scenario.NewWatcher(filepath.Dir(path))
			if err != nil {
				return fmt.Errorf("cli: watching %s: %w", path, err)
			}
			defer w.Close()

			build := func(s *scenario.Scenario) (*potential.Planner, error) {
				return newPlanner(cmd, cfg, s, delay)
			}
			return watchLoop(cmd.Context(), cmd.OutOrStdout(), path, w, cfg, build)
		},
	}
	cmd.Flags().DurationVar(&delay, "step-delay", 0, "pause between moving steps (overrides planner.step_delay)")

	return cmd
}

// runResult is a finished run together with what it was launched from.
type runResult struct {
	planner *potential.Planner
	name    string
	in      potential.Inputs
	res     descent.Result
	err     error
}

// watchLoop plans path, then re-plans every time the watcher reports it.
// A change that arrives mid-run invalidates the run in flight; the next run
// starts once the aborted one has been reported. Poses and obstacles are
// updated in place so cached obstacle fields survive; a change of workspace
// size or goal radius starts a fresh planner.
func watchLoop(
	ctx context.Context,
	out io.Writer,
	path string,
	w *scenario.Watcher,
	cfg *config.Config,
	build func(*scenario.Scenario) (*potential.Planner, error),
) error {
	log := observability.L().With(zap.String("scenario_file", path))

	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	p, err := build(s)
	if err != nil {
		return err
	}

	results := make(chan runResult, 1)
	running := false
	pending := false
	run := func(p *potential.Planner, name string) {
		running = true
		in := p.Begin()
		go func() {
			res, err := p.Plan(ctx, in)
			results <- runResult{planner: p, name: name, in: in, res: res, err: err}
		}()
	}
	run(p, s.Name)

	var next *scenario.Scenario
	for {
		select {
		case <-ctx.Done():
			if running {
				p.Invalidate()
				<-results
			}
			return nil

		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			if name != path {
				continue
			}
			changed, err := scenario.Load(path)
			if err != nil {
				log.Warn("ignoring unreadable scenario", zap.Error(err))
				continue
			}
			if next != nil || changed.Workspace() != p.Workspace() || changed.Radius(cfg.Planner.GoalRadius) != s.Radius(cfg.Planner.GoalRadius) {
				next = changed
			} else {
				if err := p.UpdatePose(changed.StartPose(), changed.GoalPose()); err != nil {
					log.Warn("ignoring scenario poses", zap.Error(err))
					continue
				}
				if err := p.SetObstacles(changed.ObstacleSet()); err != nil {
					log.Warn("ignoring scenario obstacles", zap.Error(err))
					continue
				}
				p.Prune()
			}
			s = changed
			log.Info("scenario changed, re-planning", zap.Bool("running", running))
			if running {
				p.Invalidate()
				pending = true
				continue
			}
			if p, err = rebuild(p, &next, build); err != nil {
				return err
			}
			run(p, s.Name)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case r := <-results:
			running = false
			if r.res.Path == nil && r.err != nil {
				log.Error("planning failed", zap.Error(r.err))
			} else if err := writeReport(out, newReport(r.planner, r.name, r.in, r.res, r.err), false); err != nil {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
			if pending {
				pending = false
				if p, err = rebuild(p, &next, build); err != nil {
					return err
				}
				run(p, s.Name)
			}
		}
	}
}

// rebuild swaps in a new planner when *next is set.
func rebuild(p *potential.Planner, next **scenario.Scenario, build func(*scenario.Scenario) (*potential.Planner, error)) (*potential.Planner, error) {
	if *next == nil {
		return p, nil
	}
	np, err := build(*next)
	if err != nil {
		return nil, err
	}
	*next = nil

	return np, nil
}
