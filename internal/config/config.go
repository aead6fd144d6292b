package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/bvh"
	"github.com/san-kum/particlesim/internal/scenario"
	"github.com/san-kum/particlesim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScenario = "gas"
	DefaultCount    = 50
	DefaultSeed     = 1
	DefaultSpeed    = 0.5
)

type Config struct {
	Scenario string         `yaml:"scenario"`
	Init     ScenarioConfig `yaml:"init"`

	Dt    float64 `yaml:"dt"`
	Ticks int     `yaml:"ticks"`

	Bound             float64    `yaml:"bound"`
	WallMargin        float64    `yaml:"wall_margin"`
	LeafMargin        float64    `yaml:"leaf_margin"`
	CollisionDistance float64    `yaml:"collision_distance"`
	Gravity           [2]float64 `yaml:"gravity,flow"`

	Pairs        string `yaml:"pairs"`
	ApproachOnly bool   `yaml:"approach_only"`
	Clamp        bool   `yaml:"clamp"`
	BroadPhase   string `yaml:"broad_phase"`
	SampleEvery  int    `yaml:"sample_every"`
}

type ScenarioConfig struct {
	Count int     `yaml:"count"`
	Seed  int64   `yaml:"seed"`
	Speed float64 `yaml:"speed"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		Init: ScenarioConfig{
			Count: DefaultCount,
			Seed:  DefaultSeed,
			Speed: DefaultSpeed,
		},
		Dt:                sim.DefaultDt,
		Ticks:             sim.DefaultTicks,
		Bound:             sim.DefaultBound,
		WallMargin:        sim.DefaultWallMargin,
		LeafMargin:        bvh.DefaultMargin,
		CollisionDistance: sim.DefaultCollisionDistance,
		Pairs:             sim.PairsDedupe.String(),
		ApproachOnly:      true,
		Clamp:             true,
		BroadPhase:        "bvh",
		SampleEvery:       1,
	}
}

// Load reads a YAML file on top of the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	if !scenario.NewRegistry().Has(c.Scenario) {
		return fmt.Errorf("%w: unknown scenario: %s", sim.ErrInvalidConfig, c.Scenario)
	}
	if c.Init.Count < 0 {
		return fmt.Errorf("%w: count must not be negative, got %d", sim.ErrInvalidConfig, c.Init.Count)
	}
	cfg, err := c.ToSim()
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// ToSim converts the file representation into the simulation config.
// State validation is always on for file-driven runs.
func (c *Config) ToSim() (sim.Config, error) {
	pairs, err := sim.ParsePairPolicy(c.Pairs)
	if err != nil {
		return sim.Config{}, fmt.Errorf("%w: %v", sim.ErrInvalidConfig, err)
	}
	return sim.Config{
		Dt:                c.Dt,
		Ticks:             c.Ticks,
		Bound:             c.Bound,
		WallMargin:        c.WallMargin,
		LeafMargin:        c.LeafMargin,
		CollisionDistance: c.CollisionDistance,
		Gravity:           mgl64.Vec2(c.Gravity),
		Pairs:             pairs,
		ApproachOnly:      c.ApproachOnly,
		Clamp:             c.Clamp,
		BroadPhase:        c.BroadPhase,
		ValidateState:     true,
		SampleEvery:       c.SampleEvery,
	}, nil
}

func (c *Config) Params() scenario.Params {
	return scenario.Params{
		Count: c.Init.Count,
		Seed:  c.Init.Seed,
		Speed: c.Init.Speed,
		Bound: c.Bound,
	}
}
