package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/bvh"
	"github.com/san-kum/particlesim/internal/particle"
)

// PairPolicy selects how often a colliding pair is resolved per tick.
type PairPolicy int

const (
	// PairsDedupe resolves each unordered pair once, from the lower index.
	PairsDedupe PairPolicy = iota
	// PairsBoth resolves a pair from both particles' queries. The second
	// pass sees no relative velocity left and only advances positions again.
	PairsBoth
)

func (p PairPolicy) String() string {
	switch p {
	case PairsDedupe:
		return "dedupe"
	case PairsBoth:
		return "both"
	default:
		return fmt.Sprintf("PairPolicy(%d)", int(p))
	}
}

func ParsePairPolicy(s string) (PairPolicy, error) {
	switch s {
	case "dedupe", "":
		return PairsDedupe, nil
	case "both":
		return PairsBoth, nil
	default:
		return 0, fmt.Errorf("unknown pair policy: %s", s)
	}
}

type Config struct {
	Dt    float64
	Ticks int

	// Bound is the half-width of the square domain [-Bound, Bound]².
	Bound float64
	// WallMargin is the particle radius used against the walls.
	WallMargin float64
	// LeafMargin pads particle positions into broad phase boxes.
	LeafMargin float64
	// CollisionDistance is the centre distance below which particles touch.
	CollisionDistance float64

	// Gravity is an acceleration applied to dynamic particles as mass*g.
	Gravity mgl64.Vec2

	Pairs PairPolicy
	// ApproachOnly skips contacts whose centres are already separating.
	ApproachOnly bool
	// Clamp pulls a reflected particle back inside the domain.
	Clamp bool

	BroadPhase    string
	ValidateState bool
	// SampleEvery records a frame every n ticks; zero disables recording.
	SampleEvery int
}

const (
	DefaultDt                = 0.016
	DefaultTicks             = 600
	DefaultBound             = 1.0
	DefaultWallMargin        = 0.05
	DefaultCollisionDistance = 0.1
)

func DefaultConfig() Config {
	return Config{
		Dt:                DefaultDt,
		Ticks:             DefaultTicks,
		Bound:             DefaultBound,
		WallMargin:        DefaultWallMargin,
		LeafMargin:        bvh.DefaultMargin,
		CollisionDistance: DefaultCollisionDistance,
		Pairs:             PairsDedupe,
		ApproachOnly:      true,
		Clamp:             true,
		BroadPhase:        "bvh",
		ValidateState:     true,
		SampleEvery:       1,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative, got %d", ErrInvalidConfig, c.Ticks)
	}
	if c.Bound <= 0 {
		return fmt.Errorf("%w: bound must be positive, got %f", ErrInvalidConfig, c.Bound)
	}
	if c.WallMargin < 0 || c.WallMargin >= c.Bound {
		return fmt.Errorf("%w: wall margin must be in [0, bound), got %f", ErrInvalidConfig, c.WallMargin)
	}
	if c.LeafMargin < 0 {
		return fmt.Errorf("%w: leaf margin must not be negative, got %f", ErrInvalidConfig, c.LeafMargin)
	}
	if c.CollisionDistance <= 0 {
		return fmt.Errorf("%w: collision distance must be positive, got %f", ErrInvalidConfig, c.CollisionDistance)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	return nil
}

// Stats counts the work done during one tick.
type Stats struct {
	Tick       int
	Candidates int
	Contacts   int
	WallHits   int
}

func (s *Stats) add(o Stats) {
	s.Candidates += o.Candidates
	s.Contacts += o.Contacts
	s.WallHits += o.WallHits
}

type Metric interface {
	Name() string
	Observe(ps []particle.Particle, st Stats, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(ps []particle.Particle, st Stats, t float64)
}

// Frame is a recorded copy of the particle set.
type Frame struct {
	Tick      int
	Time      float64
	Particles []particle.State
}

type Result struct {
	Frames      []Frame
	Metrics     map[string]float64
	Totals      Stats
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}
