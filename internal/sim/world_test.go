package sim

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/particle"
)

func headOn() []particle.Particle {
	return []particle.Particle{
		particle.New(1, mgl64.Vec2{-0.2, 0}, mgl64.Vec2{0.1, 0}),
		particle.New(1, mgl64.Vec2{0.2, 0}, mgl64.Vec2{-0.1, 0}),
	}
}

func mustWorld(t testing.TB, ps []particle.Particle, cfg Config) *World {
	t.Helper()
	w, err := NewWorld(ps, cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestWorldEmpty(t *testing.T) {
	w := mustWorld(t, nil, DefaultConfig())

	ps := w.Advance()
	if len(ps) != 0 {
		t.Errorf("expected no particles, got %d", len(ps))
	}
	if st := w.LastStats(); st.Tick != 1 || st.Candidates != 0 || st.Contacts != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestWorldSingleParticleDrifts(t *testing.T) {
	w := mustWorld(t, []particle.Particle{
		particle.New(1, mgl64.Vec2{0, 0}, mgl64.Vec2{0.1, -0.2}),
	}, DefaultConfig())

	for i := 0; i < 10; i++ {
		w.Advance()
	}

	want := mgl64.Vec2{0.016, -0.032}
	if got := w.Particles()[0].Position; !got.ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("position = %v, want %v", got, want)
	}
	if w.Tick() != 10 {
		t.Errorf("tick = %d, want 10", w.Tick())
	}
	if math.Abs(w.Time()-0.16) > 1e-12 {
		t.Errorf("time = %v, want 0.16", w.Time())
	}
}

func TestWorldHeadOnCollision(t *testing.T) {
	w := mustWorld(t, headOn(), DefaultConfig())

	for i := 0; i < 93; i++ {
		w.Advance()
		if c := w.LastStats().Contacts; c != 0 {
			t.Fatalf("unexpected contact at tick %d", w.Tick())
		}
	}

	ps := w.Particles()
	if ps[0].Velocity[0] != 0.1 || ps[1].Velocity[0] != -0.1 {
		t.Fatalf("velocities changed before contact: %v %v", ps[0].Velocity, ps[1].Velocity)
	}

	ps = w.Advance()
	st := w.LastStats()
	if st.Contacts != 1 {
		t.Fatalf("expected 1 contact at tick 94, got %d", st.Contacts)
	}

	if math.Abs(ps[0].Velocity[0]+0.1) > 1e-9 || math.Abs(ps[1].Velocity[0]-0.1) > 1e-9 {
		t.Errorf("expected exchanged velocities, got %v %v", ps[0].Velocity, ps[1].Velocity)
	}
	if math.Abs(ps[0].Position[0]+0.0512) > 1e-9 || math.Abs(ps[1].Position[0]-0.0512) > 1e-9 {
		t.Errorf("unexpected positions %v %v", ps[0].Position, ps[1].Position)
	}

	// separating pairs are left alone from here on
	for i := 0; i < 20; i++ {
		w.Advance()
		if c := w.LastStats().Contacts; c != 0 {
			t.Fatalf("pair collided again at tick %d", w.Tick())
		}
	}
}

func TestWorldPairsBoth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pairs = PairsBoth
	w := mustWorld(t, headOn(), cfg)

	for i := 0; i < 94; i++ {
		w.Advance()
	}

	ps := w.Particles()
	if st := w.LastStats(); st.Contacts != 2 {
		t.Errorf("expected the pair to be resolved twice, got %d", st.Contacts)
	}
	if math.Abs(ps[0].Velocity[0]+0.1) > 1e-9 || math.Abs(ps[1].Velocity[0]-0.1) > 1e-9 {
		t.Errorf("expected exchanged velocities, got %v %v", ps[0].Velocity, ps[1].Velocity)
	}
	if math.Abs(ps[0].Position[0]+0.0528) > 1e-9 || math.Abs(ps[1].Position[0]-0.0528) > 1e-9 {
		t.Errorf("expected a second position advance, got %v %v", ps[0].Position, ps[1].Position)
	}
}

func TestWorldWallBounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WallMargin = 0.06
	w := mustWorld(t, []particle.Particle{
		particle.New(1, mgl64.Vec2{0.99, 0}, mgl64.Vec2{0.5, 0}),
	}, cfg)

	ps := w.Advance()
	if w.LastStats().WallHits != 1 {
		t.Errorf("expected a wall hit, got %d", w.LastStats().WallHits)
	}
	if ps[0].Velocity[0] != -0.5 {
		t.Errorf("expected reflected velocity, got %v", ps[0].Velocity)
	}
	if math.Abs(ps[0].Position[0]-0.94) > 1e-12 {
		t.Errorf("expected clamp to 0.94, got %v", ps[0].Position[0])
	}

	ps = w.Advance()
	if w.LastStats().WallHits != 0 {
		t.Error("expected no wall hit on the second tick")
	}
	if math.Abs(ps[0].Position[0]-0.932) > 1e-12 {
		t.Errorf("expected x=0.932, got %v", ps[0].Position[0])
	}
}

func TestWorldGravity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = mgl64.Vec2{0, -9.8}
	w := mustWorld(t, []particle.Particle{
		particle.New(2, mgl64.Vec2{-0.5, 0}, mgl64.Vec2{}),
		particle.NewFixed(mgl64.Vec2{0.5, 0}, mgl64.Vec2{}),
	}, cfg)

	ps := w.Advance()

	if math.Abs(ps[0].Velocity[1]+0.1568) > 1e-12 {
		t.Errorf("vy = %v, want -0.1568", ps[0].Velocity[1])
	}
	if math.Abs(ps[0].Position[1]+0.0025088) > 1e-12 {
		t.Errorf("y = %v, want -0.0025088", ps[0].Position[1])
	}
	if ps[1].Position != (mgl64.Vec2{0.5, 0}) {
		t.Errorf("fixed particle moved to %v", ps[1].Position)
	}
}

func TestWorldFixedAnchorReflects(t *testing.T) {
	w := mustWorld(t, []particle.Particle{
		particle.NewFixed(mgl64.Vec2{0, 0}, mgl64.Vec2{}),
		particle.New(1, mgl64.Vec2{0.2, 0}, mgl64.Vec2{-0.5, 0}),
	}, DefaultConfig())

	for i := 0; i < 30 && w.LastStats().Contacts == 0; i++ {
		w.Advance()
	}

	ps := w.Particles()
	if math.Abs(ps[1].Velocity[0]-0.5) > 1e-9 {
		t.Errorf("expected the dynamic particle to bounce back, got %v", ps[1].Velocity)
	}
	if ps[0].Velocity != (mgl64.Vec2{}) {
		t.Errorf("fixed particle gained velocity %v", ps[0].Velocity)
	}
}

func TestWorldReset(t *testing.T) {
	w := mustWorld(t, headOn(), DefaultConfig())
	for i := 0; i < 5; i++ {
		w.Advance()
	}

	w.Reset(headOn())

	if w.Tick() != 0 || w.Time() != 0 {
		t.Errorf("expected clock rewound, got tick %d", w.Tick())
	}
	if got := w.Particles()[0].Position; got != (mgl64.Vec2{-0.2, 0}) {
		t.Errorf("expected fresh particles, got %v", got)
	}
}

func TestNewWorldRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BroadPhase = "octree"
	if _, err := NewWorld(nil, cfg); err == nil {
		t.Error("expected error for unknown broad phase")
	}
}

func gas(n int, seed int64) []particle.Particle {
	r := rand.New(rand.NewSource(seed))
	ps := make([]particle.Particle, n)
	for i := range ps {
		ps[i] = particle.New(
			0.5+r.Float64(),
			mgl64.Vec2{r.Float64()*1.8 - 0.9, r.Float64()*1.8 - 0.9},
			mgl64.Vec2{r.Float64() - 0.5, r.Float64() - 0.5},
		)
	}
	return ps
}

func TestWorldBroadPhasesAgree(t *testing.T) {
	bvhCfg := DefaultConfig()
	bruteCfg := DefaultConfig()
	bruteCfg.BroadPhase = "brute"

	a := mustWorld(t, gas(120, 3), bvhCfg)
	b := mustWorld(t, gas(120, 3), bruteCfg)

	for tick := 0; tick < 50; tick++ {
		a.Advance()
		b.Advance()

		sa, sb := a.LastStats(), b.LastStats()
		if sa != sb {
			t.Fatalf("tick %d: stats differ: bvh %+v brute %+v", tick+1, sa, sb)
		}
	}

	pa, pb := a.Particles(), b.Particles()
	for i := range pa {
		if !pa[i].Position.ApproxEqualThreshold(pb[i].Position, 1e-9) {
			t.Fatalf("particle %d diverged: %v vs %v", i, pa[i].Position, pb[i].Position)
		}
	}
}

func TestWorldKeepsParticlesInside(t *testing.T) {
	w := mustWorld(t, gas(80, 11), DefaultConfig())
	bound := w.Config().Bound

	for tick := 0; tick < 300; tick++ {
		ps := w.Advance()
		for i := range ps {
			if math.Abs(ps[i].Position[0]) >= bound || math.Abs(ps[i].Position[1]) >= bound {
				t.Fatalf("tick %d: particle %d escaped to %v", tick+1, i, ps[i].Position)
			}
		}
	}
}

func TestWorldUnequalMassConservesMomentum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bound = 100
	w := mustWorld(t, []particle.Particle{
		particle.New(1, mgl64.Vec2{-0.2, 0.01}, mgl64.Vec2{0.1, 0}),
		particle.New(3, mgl64.Vec2{0.2, 0}, mgl64.Vec2{-0.1, 0}),
	}, cfg)

	before := totalMomentum(w.Particles())
	beforeE := w.Particles()[0].KineticEnergy() + w.Particles()[1].KineticEnergy()
	contacts := 0
	for i := 0; i < 200; i++ {
		w.Advance()
		contacts += w.LastStats().Contacts
	}
	ps := w.Particles()
	after := totalMomentum(ps)
	afterE := ps[0].KineticEnergy() + ps[1].KineticEnergy()

	if contacts != 1 {
		t.Fatalf("expected exactly one contact, got %d", contacts)
	}
	if math.Abs(before[0]-after[0]) > 1e-12 || math.Abs(before[1]-after[1]) > 1e-12 {
		t.Errorf("momentum drifted from %v to %v", before, after)
	}
	if math.Abs(beforeE-afterE) > 1e-12 {
		t.Errorf("energy drifted from %v to %v", beforeE, afterE)
	}
}

func totalMomentum(ps []particle.Particle) mgl64.Vec2 {
	var m mgl64.Vec2
	for i := range ps {
		m = m.Add(ps[i].Momentum())
	}
	return m
}

func TestWorldQueryOrderIndependent(t *testing.T) {
	w := mustWorld(t, gas(40, 9), DefaultConfig())
	box := w.Particles()[0].Bounds(0.5)

	got := w.BroadPhase().Query(box, nil)
	sort.Ints(got)
	for i := 1; i < len(got); i++ {
		if got[i] == got[i-1] {
			t.Fatalf("duplicate index %d in query result", got[i])
		}
	}
}

func BenchmarkAdvance500(b *testing.B) {
	w := mustWorld(b, gas(500, 1), DefaultConfig())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Advance()
	}
}

func BenchmarkAdvance500Brute(b *testing.B) {
	cfg := DefaultConfig()
	cfg.BroadPhase = "brute"
	w := mustWorld(b, gas(500, 1), cfg)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Advance()
	}
}
