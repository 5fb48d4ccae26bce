// Package scenario reads planning scenarios from YAML and watches scenario
// files for changes.
//
// A scenario file looks like:
//
//	name: corridor
//	width: 100
//	height: 100
//	start: {x: 0, y: 50}
//	goal: {x: 99, y: 50}
//	goal_radius: 5
//	obstacles:
//	  - {id: 1, x: 43, y: 43, w: 14, h: 14}
//
// Obstacles without an id get their 1-based position in the list.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/apf/workspace"
)

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("scenario: invalid scenario")

// Point is a cell coordinate.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// ObstacleSpec is one rectangle as written in a scenario file.
type ObstacleSpec struct {
	ID int     `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	W  float64 `yaml:"w"`
	H  float64 `yaml:"h"`
}

// Scenario is a complete planning problem.
type Scenario struct {
	Name        string         `yaml:"name"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	Start       Point          `yaml:"start"`
	Goal        Point          `yaml:"goal"`
	GoalRadius  float64        `yaml:"goal_radius"`
	StartRadius float64        `yaml:"start_radius"`
	Obstacles   []ObstacleSpec `yaml:"obstacles"`
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	for i := range s.Obstacles {
		if s.Obstacles[i].ID == 0 {
			s.Obstacles[i].ID = i + 1
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Validate checks dimensions, poses and obstacles. A zero GoalRadius is
// allowed and means "use the configured default".
func (s *Scenario) Validate() error {
	ws := s.Workspace()
	if err := ws.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := s.StartPose().Validate(ws); err != nil {
		return fmt.Errorf("%w: start: %w", ErrInvalidScenario, err)
	}
	if err := s.GoalPose().Validate(ws); err != nil {
		return fmt.Errorf("%w: goal: %w", ErrInvalidScenario, err)
	}
	if s.GoalRadius < 0 || s.StartRadius < 0 {
		return fmt.Errorf("%w: negative radius", ErrInvalidScenario)
	}
	if err := s.ObstacleSet().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	return nil
}

// Workspace returns the scenario's grid.
func (s *Scenario) Workspace() workspace.Workspace {
	return workspace.Workspace{Width: s.Width, Height: s.Height}
}

// StartPose returns the start cell.
func (s *Scenario) StartPose() workspace.Pose { return workspace.Pose{X: s.Start.X, Y: s.Start.Y} }

// GoalPose returns the goal cell.
func (s *Scenario) GoalPose() workspace.Pose { return workspace.Pose{X: s.Goal.X, Y: s.Goal.Y} }

// ObstacleSet converts the obstacle specs.
func (s *Scenario) ObstacleSet() workspace.Obstacles {
	out := make(workspace.Obstacles, len(s.Obstacles))
	for i, o := range s.Obstacles {
		out[i] = workspace.Obstacle{ID: o.ID, X: o.X, Y: o.Y, W: o.W, H: o.H}
	}

	return out
}

// Radius returns GoalRadius, or fallback when the scenario leaves it unset.
func (s *Scenario) Radius(fallback float64) float64 {
	if s.GoalRadius > 0 {
		return s.GoalRadius
	}
	return fallback
}
