package sim

import (
	"math"

	"github.com/san-kum/particlesim/internal/particle"
)

// Wall identifies which pair of walls a particle bounced off.
type Wall int

const (
	WallNone Wall = iota
	WallBottomTop
	WallLeftRight
)

func (w Wall) String() string {
	switch w {
	case WallBottomTop:
		return "bottom/top"
	case WallLeftRight:
		return "left/right"
	default:
		return "none"
	}
}

// Boundary reflects particles off the walls of [-Bound, Bound]².
type Boundary struct {
	Bound  float64
	Margin float64
	Clamp  bool
}

// Resolve checks the vertical walls first and the horizontal walls only if
// no vertical contact was found. A contact reflects the velocity component
// pointing out of the domain, integrates the particle once more with the
// reflected velocity and, with Clamp set, pulls it back to the inner edge.
//
// With Clamp set a particle left on the inner edge of a floor or ceiling
// keeps touching it, so in a corner the vertical wall only wins while the
// particle is still moving out through it.
func (b Boundary) Resolve(p *particle.Particle, dt float64) Wall {
	vertical := b.touches(p.Position[1])
	if vertical && b.Clamp && !outward(p.Position[1], p.Velocity[1]) && b.touches(p.Position[0]) {
		vertical = false
	}

	wall := WallNone
	switch {
	case vertical:
		wall = WallBottomTop
		if outward(p.Position[1], p.Velocity[1]) {
			p.HitBottomTop()
		}
	case b.touches(p.Position[0]):
		wall = WallLeftRight
		if outward(p.Position[0], p.Velocity[0]) {
			p.HitLeftRight()
		}
	default:
		return WallNone
	}

	p.Update(dt)
	if b.Clamp {
		b.clamp(p)
	}
	return wall
}

// Inside reports whether the particle's margin disc lies strictly within
// the domain.
func (b Boundary) Inside(p *particle.Particle) bool {
	return !b.touches(p.Position[0]) && !b.touches(p.Position[1])
}

func (b Boundary) touches(c float64) bool {
	return c-b.Margin <= -b.Bound || c+b.Margin >= b.Bound
}

func (b Boundary) clamp(p *particle.Particle) {
	lim := b.Bound - b.Margin
	for axis := 0; axis < 2; axis++ {
		p.Position[axis] = math.Max(-lim, math.Min(lim, p.Position[axis]))
	}
}

func outward(pos, vel float64) bool {
	return pos*vel > 0
}
