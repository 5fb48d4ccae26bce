package cli

import (
	"fmt"
	"io"
	"time"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/apf/config"
	"github.com/katalvlaran/apf/descent"
	"github.com/katalvlaran/apf/observability"
	"github.com/katalvlaran/apf/potential"
	"github.com/katalvlaran/apf/scenario"
	"github.com/katalvlaran/apf/workspace"
)

// point is the JSON form of a cell.
type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func pointOf(p workspace.Pose) point { return point{X: p.X, Y: p.Y} }

// Report is the JSON document written for every finished planning run.
type Report struct {
	Session     string        `json:"session"`
	Scenario    string        `json:"scenario,omitempty"`
	State       descent.State `json:"state"`
	Steps       int           `json:"steps"`
	StuckCount  int           `json:"stuck_count"`
	Start       point         `json:"start"`
	Goal        point         `json:"goal"`
	GoalRadius  float64       `json:"goal_radius"`
	StartRadius float64       `json:"start_radius"`
	Path        []point       `json:"path"`
	Collisions  []point       `json:"collisions,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// newReport describes a run of p that was planned from in.
func newReport(p *potential.Planner, name string, in potential.Inputs, res descent.Result, runErr error) Report {
	r := Report{
		Session:     p.SessionID(),
		Scenario:    name,
		State:       res.State,
		Steps:       res.Steps,
		StuckCount:  res.StuckCount,
		Start:       pointOf(in.Start),
		Goal:        pointOf(in.Goal),
		GoalRadius:  in.Radius,
		StartRadius: p.StartRadius(),
		Path:        make([]point, 0, res.Path.Len()),
	}
	for _, c := range res.Path.Coords() {
		r.Path = append(r.Path, pointOf(c))
	}
	for _, wp := range res.Path.Collisions(in.Obstacles) {
		r.Collisions = append(r.Collisions, pointOf(wp.Pose()))
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}

	return r
}

// plannerOptions merges the configured planner settings with a per-command
// step delay override.
func plannerOptions(cmd *cobra.Command, cfg *config.Config, s *scenario.Scenario, delay time.Duration) []potential.Option {
	opts := cfg.Planner.Options()
	if cmd.Flags().Changed("step-delay") {
		opts = append(opts, potential.WithStepDelay(delay))
	}
	if s.StartRadius > 0 {
		opts = append(opts, potential.WithStartRadius(s.StartRadius))
	}
	name := s.Name
	if name == "" {
		name = "unnamed"
	}

	return append(opts, potential.WithLogger(observability.L().With(zap.String("scenario", name))))
}

func newPlanner(cmd *cobra.Command, cfg *config.Config, s *scenario.Scenario, delay time.Duration) (*potential.Planner, error) {
	return potential.New(s.Workspace(), s.StartPose(), s.GoalPose(), s.Radius(cfg.Planner.GoalRadius),
		s.ObstacleSet(), plannerOptions(cmd, cfg, s, delay)...)
}

func newPlanCommand() *cobra.Command {
	var (
		delay  time.Duration
		indent bool
	)
	cmd := &cobra.Command{
		Use:   "plan SCENARIO",
		Short: "Plan a path through a scenario and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			p, err := newPlanner(cmd, cfg, s, delay)
			if err != nil {
				return err
			}

			in := p.Begin()
			res, runErr := p.Plan(cmd.Context(), in)
			if res.Path == nil && runErr != nil {
				return runErr
			}
			return writeReport(cmd.OutOrStdout(), newReport(p, s.Name, in, res, runErr), indent)
		},
	}
	cmd.Flags().DurationVar(&delay, "step-delay", 0, "pause between moving steps (overrides planner.step_delay)")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent the JSON output")

	return cmd
}

func writeReport(w io.Writer, r Report, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Errorf("cli: encoding report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))

	return err
}
