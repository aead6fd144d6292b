package particle

import "github.com/go-gl/mathgl/mgl64"

// State is the read-only view of a particle that the narrow phase resolves
// against. Taking it before a contact pass keeps both sides of a pair
// working from the same values.
type State struct {
	Mass     float64
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Kind     Kind
}

func (p *Particle) Snapshot() State {
	return State{Mass: p.Mass, Position: p.Position, Velocity: p.Velocity, Kind: p.Kind}
}

// ClosingRate returns dot(Δv, Δx) against other. Negative values mean the
// two centres are approaching.
func (p *Particle) ClosingRate(other State) float64 {
	return p.Velocity.Sub(other.Velocity).Dot(p.Position.Sub(other.Position))
}

// impulseWeight is the mass ratio 2*m2/(m1+m2), with the limits for
// infinite inertia on either side.
func impulseWeight(self Kind, m1 float64, other Kind, m2 float64) float64 {
	switch {
	case self == Fixed:
		return 0
	case other == Fixed:
		return 2
	default:
		return 2 * m2 / (m1 + m2)
	}
}

// CollisionResponse applies an elastic impulse along the line of centres
// and advances the position with the new velocity:
//
//	scalar = w * dot(Δv, Δx) / dot(Δx, Δx)
//	v1'    = v1 - scalar*Δx
//	p1'    = p1 + v1'*dt
//
// Coincident centres leave the particle untouched and return false.
func (p *Particle) CollisionResponse(other State, dt float64) bool {
	dv := p.Velocity.Sub(other.Velocity)
	dx := p.Position.Sub(other.Position)

	normSq := dx.Dot(dx)
	if normSq == 0 {
		return false
	}

	w := impulseWeight(p.Kind, p.Mass, other.Kind, other.Mass)
	scalar := w * dv.Dot(dx) / normSq

	p.Velocity = p.Velocity.Sub(dx.Mul(scalar))
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
	return true
}
