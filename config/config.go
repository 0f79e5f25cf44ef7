// Package config provides configuration loading and access for the
// simulation core: world bounds, quadtree/force parameters, the
// integration step, boundary behavior, and telemetry output.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/areas"
	"github.com/titouanl/particlesim/forces"
	"github.com/titouanl/particlesim/quadtree"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable parameter of a simulation run.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Quadtree   QuadtreeConfig   `yaml:"quadtree"`
	Gravity    GravityConfig    `yaml:"gravity"`
	Repulsion  RepulsionConfig  `yaml:"repulsion"`
	Drag       DragConfig       `yaml:"drag"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Boundary   BoundaryConfig   `yaml:"boundary"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// PopulationConfig controls the initial particle count and continuous
// emission/consumption rates applied by the systems pipeline.
type PopulationConfig struct {
	Initial     int     `yaml:"initial"`
	EmitRate    float64 `yaml:"emit_rate"`
	ConsumeRate float64 `yaml:"consume_rate"`
}

// WorldConfig holds the simulated area's dimensions.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// QuadtreeConfig holds Barnes-Hut approximation parameters.
type QuadtreeConfig struct {
	Theta        float64 `yaml:"theta"`
	MaxParticles int     `yaml:"max_particles"`
}

// GravityConfig holds the pairwise gravity kernel's parameters.
type GravityConfig struct {
	G       float64 `yaml:"g"`
	Epsilon float64 `yaml:"epsilon"`
}

// RepulsionConfig holds the pairwise repulsion kernel's parameters.
type RepulsionConfig struct {
	K       float64 `yaml:"k"`
	Epsilon float64 `yaml:"epsilon"`
}

// DragConfig holds the pairwise ranged-drag kernel's parameters.
type DragConfig struct {
	C    float64 `yaml:"c"`
	DMax float64 `yaml:"d_max"`
}

// PhysicsConfig holds the integration step size.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// BoundaryConfig selects and parameterizes the world-edge behavior.
// Mode is either "wall" (reflect) or "loop" (wrap).
type BoundaryConfig struct {
	Mode        string  `yaml:"mode"`
	Restitution float64 `yaml:"restitution"`
}

// TelemetryConfig controls periodic reporting and CSV export.
type TelemetryConfig struct {
	ReportIntervalSeconds float64 `yaml:"report_interval_seconds"`
	CSVPath               string  `yaml:"csv_path"`
}

// global holds the process-wide configuration, set by Init.
var global *Config

// Init loads configuration from the given path, merged over embedded
// defaults, validates it, and stores it globally. Must be called before
// Cfg(). If path is empty, only the embedded defaults are used.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads configuration from a YAML file, merging it over embedded
// defaults, and validates the result. If path is empty, only the
// embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load %q: %v", path, err))
	}
	return cfg
}

// Validate fails fast on any configuration that would produce undefined
// or nonsensical simulation behavior, rather than letting it surface
// later as a NaN or a silent no-op.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %vx%v", c.World.Width, c.World.Height)
	}
	if c.Quadtree.Theta <= 0 {
		return fmt.Errorf("quadtree.theta must be positive, got %v", c.Quadtree.Theta)
	}
	if c.Quadtree.MaxParticles < 1 {
		return fmt.Errorf("quadtree.max_particles must be at least 1, got %d", c.Quadtree.MaxParticles)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Boundary.Mode != "wall" && c.Boundary.Mode != "loop" {
		return fmt.Errorf("boundary.mode must be \"wall\" or \"loop\", got %q", c.Boundary.Mode)
	}
	if c.Gravity.Epsilon < 0 || c.Repulsion.Epsilon < 0 {
		return fmt.Errorf("force epsilons must be non-negative")
	}
	if c.Drag.DMax < 0 {
		return fmt.Errorf("drag.d_max must be non-negative, got %v", c.Drag.DMax)
	}
	if c.Population.Initial < 0 {
		return fmt.Errorf("population.initial must be non-negative, got %d", c.Population.Initial)
	}
	return nil
}

// WriteYAML serializes the configuration to path, so a run can be
// reproduced exactly by passing the written file back into Load.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// QuadtreeOptions builds quadtree.Options for a tree rooted at root,
// combining the quadtree, gravity, repulsion and drag sections.
func (c *Config) QuadtreeOptions(root areas.Rect) quadtree.Options {
	return quadtree.Options{
		Root:         root,
		MaxParticles: c.Quadtree.MaxParticles,
		Theta:        c.Quadtree.Theta,
		Gravity:      forces.Gravity{G: c.Gravity.G, Epsilon: c.Gravity.Epsilon},
		Repulsion:    forces.Repulsion{K: c.Repulsion.K, Epsilon: c.Repulsion.Epsilon},
		Drag:         forces.Drag{C: c.Drag.C, DMax: c.Drag.DMax},
	}
}

// WorldRect returns the simulated area as a Rect rooted at the origin.
func (c *Config) WorldRect() areas.Rect {
	return areas.NewRect(r2.Vec{}, r2.Vec{X: c.World.Width, Y: c.World.Height})
}
