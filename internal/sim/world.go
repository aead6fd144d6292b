package sim

import (
	"sort"

	"github.com/san-kum/particlesim/internal/bvh"
	"github.com/san-kum/particlesim/internal/geom"
	"github.com/san-kum/particlesim/internal/particle"
)

// World owns a particle set and advances it one fixed timestep at a time.
type World struct {
	cfg       Config
	particles []particle.Particle
	broad     bvh.BroadPhase
	boundary  Boundary
	snaps     []particle.State
	hits      []int
	tick      int
	last      Stats
}

// NewWorld takes ownership of ps.
func NewWorld(ps []particle.Particle, cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	broad, err := bvh.NewBroadPhase(cfg.BroadPhase, cfg.LeafMargin)
	if err != nil {
		return nil, err
	}
	w := &World{
		cfg:       cfg,
		particles: ps,
		broad:     broad,
		boundary:  Boundary{Bound: cfg.Bound, Margin: cfg.WallMargin, Clamp: cfg.Clamp},
	}
	broad.Build(ps)
	return w, nil
}

func (w *World) Config() Config                 { return w.cfg }
func (w *World) Particles() []particle.Particle { return w.particles }
func (w *World) BroadPhase() bvh.BroadPhase     { return w.broad }
func (w *World) Boundary() Boundary             { return w.boundary }
func (w *World) Tick() int                      { return w.tick }
func (w *World) Time() float64                  { return float64(w.tick) * w.cfg.Dt }
func (w *World) LastStats() Stats               { return w.last }

// Reset replaces the particle set and rewinds the clock.
func (w *World) Reset(ps []particle.Particle) {
	w.particles = ps
	w.tick = 0
	w.last = Stats{}
	w.broad.Build(ps)
}

// Advance runs one tick and returns the updated particles.
func (w *World) Advance() []particle.Particle {
	ps := w.particles
	dt := w.cfg.Dt
	st := Stats{Tick: w.tick + 1}

	if w.cfg.Gravity[0] != 0 || w.cfg.Gravity[1] != 0 {
		for i := range ps {
			if ps[i].Kind == particle.Dynamic {
				ps[i].ApplyForce(w.cfg.Gravity.Mul(ps[i].Mass))
			}
		}
	}

	for i := range ps {
		ps[i].Update(dt)
	}

	for i := range ps {
		if w.boundary.Resolve(&ps[i], dt) != WallNone {
			st.WallHits++
		}
	}

	w.broad.Build(ps)
	w.narrowPhase(&st)

	w.tick++
	w.last = st
	return ps
}

// narrowPhase resolves contacts against a snapshot taken after the broad
// phase rebuild, so both sides of a pair see the same pre-contact values.
func (w *World) narrowPhase(st *Stats) {
	ps := w.particles
	dt := w.cfg.Dt

	w.snaps = w.snaps[:0]
	for i := range ps {
		w.snaps = append(w.snaps, ps[i].Snapshot())
	}

	for i := range ps {
		si := w.snaps[i]
		w.hits = w.broad.Query(geom.Padded(si.Position, w.cfg.LeafMargin), w.hits[:0])
		// index order keeps results independent of the broad phase
		sort.Ints(w.hits)

		for _, j := range w.hits {
			if j == i || (w.cfg.Pairs == PairsDedupe && j < i) {
				continue
			}
			st.Candidates++

			sj := w.snaps[j]
			d := si.Position.Sub(sj.Position).Len()
			if d == 0 || d >= w.cfg.CollisionDistance {
				continue
			}
			if w.cfg.ApproachOnly && closing(si, sj) >= 0 {
				continue
			}

			ps[i].CollisionResponse(sj, dt)
			ps[j].CollisionResponse(si, dt)
			st.Contacts++
		}
	}
}

func closing(a, b particle.State) float64 {
	return a.Velocity.Sub(b.Velocity).Dot(a.Position.Sub(b.Position))
}
