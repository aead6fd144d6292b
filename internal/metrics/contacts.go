package metrics

import (
	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/sim"
)

// ContactRate is the mean number of resolved contacts per tick.
type ContactRate struct {
	name    string
	sum     int
	samples int
}

func NewContactRate() *ContactRate {
	return &ContactRate{
		name: "contact_rate",
	}
}

func (c *ContactRate) Name() string {
	return c.name
}

func (c *ContactRate) Observe(ps []particle.Particle, st sim.Stats, t float64) {
	c.sum += st.Contacts
	c.samples++
}

func (c *ContactRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *ContactRate) Reset() {
	c.sum = 0
	c.samples = 0
}

// Pruning is the mean fraction of the n(n-1)/2 pairs the broad phase
// rejected before the narrow phase.
type Pruning struct {
	name    string
	sum     float64
	samples int
}

func NewPruning() *Pruning {
	return &Pruning{name: "pruning"}
}

func (p *Pruning) Name() string { return p.name }

func (p *Pruning) Observe(ps []particle.Particle, st sim.Stats, t float64) {
	n := len(ps)
	if n < 2 {
		return
	}
	pairs := float64(n*(n-1)) / 2
	p.sum += 1 - float64(st.Candidates)/pairs
	p.samples++
}

func (p *Pruning) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *Pruning) Reset() {
	p.sum = 0
	p.samples = 0
}
