package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/sim"
)

// Momentum reports the magnitude of the total linear momentum at the last
// observation. Fixed particles carry none.
type Momentum struct {
	name string
	last mgl64.Vec2
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(ps []particle.Particle, st sim.Stats, t float64) {
	var p mgl64.Vec2
	for i := range ps {
		p = p.Add(ps[i].Momentum())
	}
	m.last = p
}

func (m *Momentum) Value() float64 {
	return m.last.Len()
}

func (m *Momentum) Reset() {
	m.last = mgl64.Vec2{}
}
