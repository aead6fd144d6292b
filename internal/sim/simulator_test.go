package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/particle"
)

type countingMetric struct {
	steps    int
	contacts int
}

func (m *countingMetric) Name() string { return "counting" }
func (m *countingMetric) Observe(ps []particle.Particle, st Stats, t float64) {
	m.steps++
	m.contacts += st.Contacts
}
func (m *countingMetric) Value() float64 { return float64(m.contacts) }
func (m *countingMetric) Reset()         { m.steps, m.contacts = 0, 0 }

type lastTimeObserver struct {
	calls int
	last  float64
}

func (o *lastTimeObserver) OnStep(ps []particle.Particle, st Stats, t float64) {
	o.calls++
	o.last = t
}

func TestSimulatorRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ticks = 100
	w := mustWorld(t, headOn(), cfg)

	s := New(w)
	metric := &countingMetric{}
	obs := &lastTimeObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsTaken)
	}
	if len(result.Frames) != 101 {
		t.Errorf("expected 101 frames, got %d", len(result.Frames))
	}
	if result.Totals.Contacts != 1 {
		t.Errorf("expected one contact, got %d", result.Totals.Contacts)
	}
	if result.Totals.Tick != 100 {
		t.Errorf("expected final tick 100, got %d", result.Totals.Tick)
	}
	if metric.steps != 100 {
		t.Errorf("metric observed %d steps", metric.steps)
	}
	if result.Metrics["counting"] != 1 {
		t.Errorf("expected metric value 1, got %v", result.Metrics["counting"])
	}
	if obs.calls != 100 || math.Abs(obs.last-1.6) > 1e-12 {
		t.Errorf("observer saw %d calls, last t=%v", obs.calls, obs.last)
	}
	if result.EnergyDrift > 1e-9 {
		t.Errorf("elastic head-on collision drifted energy by %v", result.EnergyDrift)
	}

	first := result.Frames[0]
	if first.Tick != 0 || first.Particles[0].Position != (mgl64.Vec2{-0.2, 0}) {
		t.Errorf("unexpected first frame %+v", first)
	}
}

func TestSimulatorSampling(t *testing.T) {
	tests := []struct {
		every  int
		ticks  int
		frames int
	}{
		{0, 10, 0},
		{1, 10, 11},
		{5, 10, 3},
		{3, 10, 4},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Ticks = tt.ticks
		cfg.SampleEvery = tt.every
		s := New(mustWorld(t, headOn(), cfg))

		result, err := s.Run(context.Background())
		if err != nil {
			t.Fatalf("every=%d: %v", tt.every, err)
		}
		if len(result.Frames) != tt.frames {
			t.Errorf("every=%d: expected %d frames, got %d", tt.every, tt.frames, len(result.Frames))
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.1 }},
		{"negative ticks", func(c *Config) { c.Ticks = -1 }},
		{"zero bound", func(c *Config) { c.Bound = 0 }},
		{"margin past bound", func(c *Config) { c.WallMargin = 1 }},
		{"negative leaf margin", func(c *Config) { c.LeafMargin = -0.1 }},
		{"zero collision distance", func(c *Config) { c.CollisionDistance = 0 }},
		{"negative sampling", func(c *Config) { c.SampleEvery = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewWorld(headOn(), cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorDetectsInvalidState(t *testing.T) {
	w := mustWorld(t, []particle.Particle{
		particle.New(1, mgl64.Vec2{0, 0}, mgl64.Vec2{math.NaN(), 0}),
	}, DefaultConfig())

	result, err := New(w).Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}

	var simErr *SimError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimError, got %T", err)
	}
	if simErr.Tick != 1 || simErr.Particle != 0 {
		t.Errorf("unexpected location tick=%d particle=%d", simErr.Tick, simErr.Particle)
	}
	if result == nil || len(result.Errors) != 1 {
		t.Error("expected partial result carrying the error")
	}
}

func TestSimulatorSkipsValidationWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ticks = 5
	cfg.ValidateState = false
	w := mustWorld(t, []particle.Particle{
		particle.New(1, mgl64.Vec2{0, 0}, mgl64.Vec2{math.Inf(1), 0}),
	}, cfg)

	result, err := New(w).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.StepsTaken != 5 {
		t.Errorf("expected 5 steps, got %d", result.StepsTaken)
	}
}

func TestSimulatorContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(mustWorld(t, headOn(), DefaultConfig())).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
}

func TestSimulatorRunWithCallback(t *testing.T) {
	s := New(mustWorld(t, headOn(), DefaultConfig()))

	var contactTick int
	err := s.RunWithCallback(context.Background(), func(ps []particle.Particle, st Stats, t float64) bool {
		if st.Contacts > 0 {
			contactTick = st.Tick
			return false
		}
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contactTick != 94 {
		t.Errorf("expected contact at tick 94, got %d", contactTick)
	}
	if s.World().Tick() != 94 {
		t.Errorf("expected the run to stop at tick 94, got %d", s.World().Tick())
	}
}

func TestSimError(t *testing.T) {
	err := &SimError{Tick: 3, Time: 0.048, Particle: 7, Wrapped: ErrInvalidState}
	want := "tick 3 (t=0.0480): particle 7: sim: invalid state (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("expected Unwrap to expose ErrInvalidState")
	}
}

func TestParsePairPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    PairPolicy
		wantErr bool
	}{
		{"", PairsDedupe, false},
		{"dedupe", PairsDedupe, false},
		{"both", PairsBoth, false},
		{"twice", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePairPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePairPolicy(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePairPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && tt.in != "" && got.String() != tt.in {
			t.Errorf("round trip %q -> %q", tt.in, got.String())
		}
	}
}
