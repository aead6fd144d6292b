package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/geom"
)

// Kind distinguishes bodies that respond to forces from immovable ones.
type Kind int

const (
	Dynamic Kind = iota
	Fixed
)

func (k Kind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Fixed:
		return "fixed"
	default:
		return "unknown"
	}
}

type Particle struct {
	Mass         float64
	Position     mgl64.Vec2
	Velocity     mgl64.Vec2
	Acceleration mgl64.Vec2
	Force        mgl64.Vec2
	Kind         Kind
}

// New returns a particle at pos moving with vel. A non-positive mass yields
// a Fixed particle.
func New(mass float64, pos, vel mgl64.Vec2) Particle {
	kind := Dynamic
	if mass <= 0 {
		kind = Fixed
	}
	return Particle{Mass: mass, Position: pos, Velocity: vel, Kind: kind}
}

// NewFixed returns an immovable particle. It still drifts with vel.
func NewFixed(pos, vel mgl64.Vec2) Particle {
	return Particle{Position: pos, Velocity: vel, Kind: Fixed}
}

// ApplyForce accumulates f until the next Update.
func (p *Particle) ApplyForce(f mgl64.Vec2) {
	p.Force = p.Force.Add(f)
}

// Update integrates one step of semi-implicit Euler and clears the force
// accumulator.
func (p *Particle) Update(dt float64) {
	if p.Kind == Dynamic && p.Mass > 0 {
		p.Acceleration = p.Force.Mul(1 / p.Mass)
	} else {
		p.Acceleration = mgl64.Vec2{}
	}

	p.Velocity = p.Velocity.Add(p.Acceleration.Mul(dt))
	p.Position = p.Position.Add(p.Velocity.Mul(dt))

	p.Force = mgl64.Vec2{}
}

// HitBottomTop reflects the vertical velocity.
func (p *Particle) HitBottomTop() {
	p.Velocity[1] = -p.Velocity[1]
}

// HitLeftRight reflects the horizontal velocity.
func (p *Particle) HitLeftRight() {
	p.Velocity[0] = -p.Velocity[0]
}

// Bounds returns the position padded by margin on both axes.
func (p *Particle) Bounds(margin float64) geom.AABB {
	return geom.Padded(p.Position, margin)
}

func (p *Particle) KineticEnergy() float64 {
	if p.Kind == Fixed {
		return 0
	}
	return 0.5 * p.Mass * p.Velocity.LenSqr()
}

func (p *Particle) Momentum() mgl64.Vec2 {
	if p.Kind == Fixed {
		return mgl64.Vec2{}
	}
	return p.Velocity.Mul(p.Mass)
}

func (p *Particle) Speed() float64 {
	return p.Velocity.Len()
}

// IsValid reports whether every component of the particle is finite.
func (p *Particle) IsValid() bool {
	for _, v := range [...]float64{
		p.Mass,
		p.Position[0], p.Position[1],
		p.Velocity[0], p.Velocity[1],
		p.Acceleration[0], p.Acceleration[1],
		p.Force[0], p.Force[1],
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
