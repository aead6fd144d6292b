package scenario

import (
	"math"
	"testing"

	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/sim"
)

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	want := []string{"anchor", "gas", "headon", "lattice", "pair", "wall"}

	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("expected %d scenarios, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, got[i], want[i])
		}
		if r.Describe(want[i]) == "" {
			t.Errorf("scenario %s has no description", want[i])
		}
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	p := DefaultParams()
	p.Count = 16

	tests := []struct {
		name string
		want int
	}{
		{"headon", 2},
		{"wall", 1},
		{"pair", 2},
		{"gas", 16},
		{"lattice", 17},
		{"anchor", 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := r.Get(tt.name, p)
			if err != nil {
				t.Fatalf("Get(%s): %v", tt.name, err)
			}
			if len(ps) != tt.want {
				t.Errorf("expected %d particles, got %d", tt.want, len(ps))
			}
			for i := range ps {
				if !ps[i].IsValid() {
					t.Errorf("particle %d is not finite", i)
				}
			}
		})
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("vortex", DefaultParams()); err == nil {
		t.Error("expected error for unknown scenario")
	}
	if r.Has("vortex") {
		t.Error("Has reported an unknown scenario")
	}

	p := DefaultParams()
	p.Count = -1
	if _, err := r.Get("gas", p); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestGasIsSeeded(t *testing.T) {
	p := DefaultParams()
	a := Gas(p)
	b := Gas(p)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs between runs with the same seed", i)
		}
	}

	p.Seed = 2
	c := Gas(p)
	if a[0] == c[0] {
		t.Error("expected a different seed to change the layout")
	}
}

func TestGasStaysInsideAndApart(t *testing.T) {
	p := DefaultParams()
	p.Count = 40
	ps := Gas(p)

	for i := range ps {
		for axis := 0; axis < 2; axis++ {
			if math.Abs(ps[i].Position[axis]) > p.Bound-minSpacing {
				t.Errorf("particle %d at %v is outside the spawn area", i, ps[i].Position)
			}
		}
		if s := ps[i].Speed(); s > p.Speed {
			t.Errorf("particle %d speed %f exceeds %f", i, s, p.Speed)
		}
		for j := i + 1; j < len(ps); j++ {
			if ps[i].Position.Sub(ps[j].Position).Len() < minSpacing {
				t.Errorf("particles %d and %d start in contact", i, j)
			}
		}
	}
}

func TestLatticeStaysInside(t *testing.T) {
	tests := []struct {
		name  string
		count int
		bound float64
		want  int
	}{
		{"small", 25, 1, 26},
		{"capped", 400, 1, 101},
		{"narrow", 400, 0.5, 10},
		{"tiny domain", 9, 0.2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.Count = tt.count
			p.Bound = tt.bound
			ps := Lattice(p)

			if len(ps) != tt.want {
				t.Errorf("expected %d particles, got %d", tt.want, len(ps))
			}
			for i := range ps {
				for axis := 0; axis < 2; axis++ {
					if math.Abs(ps[i].Position[axis]) > p.Bound-minSpacing {
						t.Errorf("particle %d at %v is outside the spawn area", i, ps[i].Position)
					}
				}
				for j := i + 1; j < len(ps); j++ {
					if ps[i].Position.Sub(ps[j].Position).Len() < minSpacing {
						t.Errorf("particles %d and %d start in contact", i, j)
					}
				}
			}
		})
	}
}

func TestLatticeSurvivesFirstTick(t *testing.T) {
	p := DefaultParams()
	p.Count = 400
	w, err := sim.NewWorld(Lattice(p), sim.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	ps := w.Advance()

	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if ps[i].Position == ps[j].Position {
				t.Fatalf("particles %d and %d coincide at %v", i, j, ps[i].Position)
			}
		}
	}
	if w.LastStats().WallHits != 0 {
		t.Errorf("expected no wall contacts on the first tick, got %d", w.LastStats().WallHits)
	}
}

func TestAnchorHasFixedCentre(t *testing.T) {
	ps := Anchor(DefaultParams())
	if ps[0].Kind != particle.Fixed {
		t.Errorf("expected fixed anchor, got %v", ps[0].Kind)
	}
	for i := 1; i < len(ps); i++ {
		if ps[i].Position.Dot(ps[i].Velocity) >= 0 {
			t.Errorf("ring particle %d is not moving inward", i)
		}
	}
}

func TestPairMatchesTwoBodySetup(t *testing.T) {
	ps := Pair(DefaultParams())
	if ps[0].Mass != 1 || ps[1].Mass != 2 {
		t.Errorf("unexpected masses %v %v", ps[0].Mass, ps[1].Mass)
	}
	if ps[0].Velocity[1] != -0.2 || ps[1].Velocity[1] != 0.2 {
		t.Errorf("unexpected velocities %v %v", ps[0].Velocity, ps[1].Velocity)
	}
}
