// Package config loads apf settings from a YAML file, APF_* environment
// variables and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/katalvlaran/apf/potential"
)

// EnvPrefix prefixes every environment override, e.g. APF_PLANNER_MAX_STEPS.
const EnvPrefix = "APF"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Planner PlannerConfig `mapstructure:"planner" yaml:"planner"`
}

// LoggerConfig configures the process logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// PlannerConfig holds the field and path-following tunables.
type PlannerConfig struct {
	// GoalRadius is used when a scenario does not set its own.
	GoalRadius        float64       `mapstructure:"goal_radius" yaml:"goal_radius"`
	StartRadius       float64       `mapstructure:"start_radius" yaml:"start_radius"`
	MinVel            float64       `mapstructure:"min_vel" yaml:"min_vel"`
	MaxVel            float64       `mapstructure:"max_vel" yaml:"max_vel"`
	FarMagnitude      float64       `mapstructure:"far_magnitude" yaml:"far_magnitude"`
	FalloffFactor     float64       `mapstructure:"falloff_factor" yaml:"falloff_factor"`
	MaxMagnitude      float64       `mapstructure:"max_magnitude" yaml:"max_magnitude"`
	EscapeCoefficient float64       `mapstructure:"escape_coefficient" yaml:"escape_coefficient"`
	VirtualForce      bool          `mapstructure:"virtual_force" yaml:"virtual_force"`
	StepDelay         time.Duration `mapstructure:"step_delay" yaml:"step_delay"`
	MaxSteps          int           `mapstructure:"max_steps" yaml:"max_steps"`

	// Workers bounds parallel obstacle-field builds; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "apf")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Planner --
	v.SetDefault("planner.goal_radius", 5.0)
	v.SetDefault("planner.start_radius", 0.0)
	v.SetDefault("planner.min_vel", potential.DefaultMinVel)
	v.SetDefault("planner.max_vel", potential.DefaultMaxVel)
	v.SetDefault("planner.far_magnitude", potential.DefaultFarMagnitude)
	v.SetDefault("planner.falloff_factor", potential.DefaultFalloffFactor)
	v.SetDefault("planner.max_magnitude", potential.DefaultMaxMagnitude)
	v.SetDefault("planner.escape_coefficient", 5.0)
	v.SetDefault("planner.virtual_force", true)
	v.SetDefault("planner.step_delay", "20ms")
	v.SetDefault("planner.max_steps", 10000)
	v.SetDefault("planner.workers", 0)
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: unmarshal defaults: %v", err))
	}
	return &cfg
}

// Load prepares v (defaults, env overrides, optional file) and decodes it.
// With file == "" it looks for ./apf.yaml and proceeds without one if absent;
// an explicit file that cannot be read is an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("apf")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	return NewConfigFromViper(v)
}

// NewConfigFromViper decodes and validates v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Planner.Validate(); err != nil {
		return err
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logger.format %q (want console or json)", ErrInvalidConfig, c.Logger.Format)
	}

	return nil
}

// Validate rejects values the potential options would refuse.
func (p PlannerConfig) Validate() error {
	bad := func(key string, v any) error {
		return fmt.Errorf("%w: planner.%s = %v", ErrInvalidConfig, key, v)
	}
	finite := func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

	switch {
	case !finite(p.GoalRadius) || p.GoalRadius <= 0:
		return bad("goal_radius", p.GoalRadius)
	case !finite(p.StartRadius) || p.StartRadius < 0:
		return bad("start_radius", p.StartRadius)
	case !finite(p.MinVel) || p.MinVel < 0:
		return bad("min_vel", p.MinVel)
	case !finite(p.MaxVel) || p.MaxVel < p.MinVel:
		return bad("max_vel", p.MaxVel)
	case !finite(p.FarMagnitude) || p.FarMagnitude < 0:
		return bad("far_magnitude", p.FarMagnitude)
	case !finite(p.FalloffFactor) || p.FalloffFactor <= 0:
		return bad("falloff_factor", p.FalloffFactor)
	case !finite(p.MaxMagnitude) || p.MaxMagnitude <= 0:
		return bad("max_magnitude", p.MaxMagnitude)
	case !finite(p.EscapeCoefficient) || p.EscapeCoefficient < 0:
		return bad("escape_coefficient", p.EscapeCoefficient)
	case p.StepDelay < 0:
		return bad("step_delay", p.StepDelay)
	case p.MaxSteps < 0:
		return bad("max_steps", p.MaxSteps)
	case p.Workers < 0:
		return bad("workers", p.Workers)
	}

	return nil
}

// Options converts p into planner options. p must be valid.
func (p PlannerConfig) Options() []potential.Option {
	opts := []potential.Option{
		potential.WithStartRadius(p.StartRadius),
		potential.WithVelocityBounds(p.MinVel, p.MaxVel),
		potential.WithFarMagnitude(p.FarMagnitude),
		potential.WithFalloffFactor(p.FalloffFactor),
		potential.WithMaxMagnitude(p.MaxMagnitude),
		potential.WithEscapeCoefficient(p.EscapeCoefficient),
		potential.WithVirtualForce(p.VirtualForce),
		potential.WithStepDelay(p.StepDelay),
		potential.WithMaxSteps(p.MaxSteps),
	}
	if p.Workers > 0 {
		opts = append(opts, potential.WithWorkers(p.Workers))
	}

	return opts
}
