package metrics

import (
	"math"

	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/sim"
)

// Containment is the fraction of observed ticks on which every particle
// lay within [-bound, bound]².
type Containment struct {
	name       string
	bound      float64
	violations int
	samples    int
}

func NewContainment(bound float64) *Containment {
	return &Containment{
		name:  "containment",
		bound: bound,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(ps []particle.Particle, st sim.Stats, t float64) {
	c.samples++
	for i := range ps {
		if math.Abs(ps[i].Position[0]) > c.bound || math.Abs(ps[i].Position[1]) > c.bound {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// MaxSpeed is the highest particle speed seen during the run.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(ps []particle.Particle, st sim.Stats, t float64) {
	for i := range ps {
		m.max = math.Max(m.max, ps[i].Speed())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// Standard returns the metric set the CLI attaches to every run.
func Standard(bound float64) []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewEnergyDrift(),
		NewMomentum(),
		NewContactRate(),
		NewPruning(),
		NewMaxSpeed(),
		NewContainment(bound),
	}
}
