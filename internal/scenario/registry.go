// Package scenario builds named initial particle sets.
package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/particle"
)

// Params tunes the generated scenarios. Not every scenario reads every field.
type Params struct {
	Count int
	Seed  int64
	Speed float64
	Bound float64
}

func DefaultParams() Params {
	return Params{Count: 50, Seed: 1, Speed: 0.5, Bound: 1}
}

type entry struct {
	build       func(Params) []particle.Particle
	description string
}

type Registry struct {
	scenarios map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]entry)}

	r.scenarios["headon"] = entry{HeadOn, "two equal masses closing along the x axis"}
	r.scenarios["wall"] = entry{Wall, "one particle about to hit the right wall"}
	r.scenarios["pair"] = entry{Pair, "two bodies of mass 1 and 2 moving vertically"}
	r.scenarios["gas"] = entry{Gas, "seeded random particles"}
	r.scenarios["lattice"] = entry{Lattice, "particles at rest on a grid struck by a projectile"}
	r.scenarios["anchor"] = entry{Anchor, "a ring falling onto a fixed body"}

	return r
}

func (r *Registry) Get(name string, p Params) ([]particle.Particle, error) {
	e, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	if p.Count < 0 {
		return nil, fmt.Errorf("scenario %s: count must not be negative, got %d", name, p.Count)
	}
	if p.Bound <= 0 {
		p.Bound = 1
	}
	return e.build(p), nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.scenarios[name]
	return ok
}

func (r *Registry) Describe(name string) string {
	return r.scenarios[name].description
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func HeadOn(Params) []particle.Particle {
	return []particle.Particle{
		particle.New(1, mgl64.Vec2{-0.2, 0}, mgl64.Vec2{0.1, 0}),
		particle.New(1, mgl64.Vec2{0.2, 0}, mgl64.Vec2{-0.1, 0}),
	}
}

func Wall(p Params) []particle.Particle {
	return []particle.Particle{
		particle.New(1, mgl64.Vec2{p.Bound - 0.01, 0}, mgl64.Vec2{p.Speed, 0}),
	}
}

func Pair(Params) []particle.Particle {
	return []particle.Particle{
		particle.New(1, mgl64.Vec2{0, 0.5}, mgl64.Vec2{0, -0.2}),
		particle.New(2, mgl64.Vec2{-0.5, 0.5}, mgl64.Vec2{0, 0.2}),
	}
}

// minSpacing keeps generated particles from starting in contact.
const minSpacing = 0.1

// Gas scatters Count particles with masses in [0.5, 1.5) and speeds up to
// Speed. Placement retries a bounded number of times to avoid overlaps and
// accepts the last candidate when the domain is too crowded.
func Gas(p Params) []particle.Particle {
	r := rand.New(rand.NewSource(p.Seed))
	span := p.Bound - minSpacing
	ps := make([]particle.Particle, 0, p.Count)

	for len(ps) < p.Count {
		var pos mgl64.Vec2
		for attempt := 0; attempt < 64; attempt++ {
			pos = mgl64.Vec2{(2*r.Float64() - 1) * span, (2*r.Float64() - 1) * span}
			if !crowded(ps, pos) {
				break
			}
		}
		angle := 2 * math.Pi * r.Float64()
		speed := p.Speed * r.Float64()
		vel := mgl64.Vec2{speed * math.Cos(angle), speed * math.Sin(angle)}
		ps = append(ps, particle.New(0.5+r.Float64(), pos, vel))
	}
	return ps
}

func crowded(ps []particle.Particle, pos mgl64.Vec2) bool {
	for i := range ps {
		if ps[i].Position.Sub(pos).Len() < minSpacing {
			return true
		}
	}
	return false
}

// Lattice places up to Count resting unit masses on a square grid centred on
// the origin and fires one projectile at it from the left. The grid is cut
// down to the largest side that fits within ±(Bound - 3*minSpacing), which
// leaves room for the projectile's start column. Domains too small for
// that get the projectile alone.
func Lattice(p Params) []particle.Particle {
	side := max(1, int(math.Sqrt(float64(p.Count))))
	spacing := 1.5 * minSpacing
	if extent := p.Bound - 3*minSpacing; extent > 0 {
		side = min(side, int(2*extent/spacing)+1)
	} else {
		side = 0
	}
	origin := -spacing * float64(side-1) / 2

	ps := make([]particle.Particle, 0, side*side+1)
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			pos := mgl64.Vec2{origin + spacing*float64(col), origin + spacing*float64(row)}
			ps = append(ps, particle.New(1, pos, mgl64.Vec2{}))
		}
	}

	start := mgl64.Vec2{-(p.Bound - 2*minSpacing), 0.01}
	ps = append(ps, particle.New(1, start, mgl64.Vec2{p.Speed, 0}))
	return ps
}

// Anchor puts a fixed body at the origin surrounded by a ring of Count
// particles moving towards it.
func Anchor(p Params) []particle.Particle {
	ps := []particle.Particle{particle.NewFixed(mgl64.Vec2{}, mgl64.Vec2{})}

	radius := p.Bound / 2
	for i := 0; i < p.Count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(p.Count)
		dir := mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
		ps = append(ps, particle.New(1, dir.Mul(radius), dir.Mul(-p.Speed)))
	}
	return ps
}
