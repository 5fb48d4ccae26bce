package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/apf/potential"
	"github.com/katalvlaran/apf/workspace"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "apf", cfg.Logger.ServiceName)
	assert.Empty(t, cfg.Logger.LogFile)

	p := cfg.Planner
	assert.Equal(t, 5.0, p.GoalRadius)
	assert.Equal(t, 2.0, p.MinVel)
	assert.Equal(t, 40.0, p.MaxVel)
	assert.Equal(t, 15.0, p.FarMagnitude)
	assert.Equal(t, 1.5, p.FalloffFactor)
	assert.Equal(t, 25.0, p.MaxMagnitude)
	assert.Equal(t, 5.0, p.EscapeCoefficient)
	assert.True(t, p.VirtualForce)
	assert.Equal(t, 20*time.Millisecond, p.StepDelay)
	assert.Equal(t, 10000, p.MaxSteps)
	assert.Zero(t, p.Workers)
	require.NoError(t, cfg.Validate())
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "apf.yaml", `
logger:
  level: debug
  format: json
planner:
  goal_radius: 3
  max_steps: 50
  step_delay: 5ms
  virtual_force: false
  workers: 2
`)
	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 3.0, cfg.Planner.GoalRadius)
	assert.Equal(t, 50, cfg.Planner.MaxSteps)
	assert.Equal(t, 5*time.Millisecond, cfg.Planner.StepDelay)
	assert.False(t, cfg.Planner.VirtualForce)
	assert.Equal(t, 2, cfg.Planner.Workers)
	// untouched keys keep their defaults
	assert.Equal(t, 40.0, cfg.Planner.MaxVel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "apf.yaml", "planner:\n  max_steps: 50\n")
	t.Setenv("APF_PLANNER_MAX_STEPS", "77")
	t.Setenv("APF_LOGGER_LEVEL", "warn")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.Planner.MaxSteps)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)

	_, err = Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, "apf.yaml", "planner:\n  falloff_factor: 0\n")
	_, err := Load(viper.New(), path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "planner.falloff_factor")
}

func TestPlannerConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlannerConfig)
	}{
		{"goal radius", func(p *PlannerConfig) { p.GoalRadius = 0 }},
		{"start radius", func(p *PlannerConfig) { p.StartRadius = -1 }},
		{"min vel", func(p *PlannerConfig) { p.MinVel = -2 }},
		{"max below min", func(p *PlannerConfig) { p.MaxVel = 1 }},
		{"far magnitude", func(p *PlannerConfig) { p.FarMagnitude = -1 }},
		{"max magnitude", func(p *PlannerConfig) { p.MaxMagnitude = 0 }},
		{"escape", func(p *PlannerConfig) { p.EscapeCoefficient = -0.5 }},
		{"delay", func(p *PlannerConfig) { p.StepDelay = -time.Second }},
		{"max steps", func(p *PlannerConfig) { p.MaxSteps = -1 }},
		{"workers", func(p *PlannerConfig) { p.Workers = -3 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewDefaultConfig().Planner
			tc.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidConfig)
		})
	}

	cfg := NewDefaultConfig()
	cfg.Logger.Format = "xml"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestPlannerConfig_Options(t *testing.T) {
	p := NewDefaultConfig().Planner
	assert.Len(t, p.Options(), 9)
	p.Workers = 4
	assert.Len(t, p.Options(), 10)

	p.FarMagnitude = 3
	ws := workspace.Workspace{Width: 100, Height: 100}
	f, err := potential.Attractive(ws, workspace.Pose{X: 90, Y: 90}, p.GoalRadius, p.Options()...)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f.Get(10, 10).X, 1e-9)
}
