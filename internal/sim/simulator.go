package sim

import (
	"context"
	"math"

	"github.com/san-kum/particlesim/internal/particle"
)

type Simulator struct {
	world     *World
	metrics   []Metric
	observers []Observer
}

func New(world *World) *Simulator {
	return &Simulator{
		world:     world,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) World() *World          { return s.world }

// Run advances the world for the configured number of ticks. It stops early
// when ctx is done or, with ValidateState set, when a particle stops being
// finite; the partial result is returned alongside the error.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg := s.world.Config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, frameCapacity(cfg)),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	ps := s.world.Particles()
	if cfg.SampleEvery > 0 {
		result.Frames = append(result.Frames, capture(ps, s.world.Tick(), s.world.Time()))
	}
	initialEnergy := kineticEnergy(ps)

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		ps = s.world.Advance()
		st := s.world.LastStats()
		t := s.world.Time()

		if cfg.ValidateState {
			if idx := firstInvalid(ps); idx >= 0 {
				err := &SimError{Tick: st.Tick, Time: t, Particle: idx, Wrapped: ErrInvalidState}
				result.Errors = append(result.Errors, err)
				return result, err
			}
		}

		result.StepsTaken++
		result.Totals.add(st)
		result.Totals.Tick = st.Tick

		for _, m := range s.metrics {
			m.Observe(ps, st, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(ps, st, t)
		}

		if cfg.SampleEvery > 0 && st.Tick%cfg.SampleEvery == 0 {
			result.Frames = append(result.Frames, capture(ps, st.Tick, t))
		}
	}

	finalEnergy := kineticEnergy(ps)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback advances the world until the callback returns false, the
// configured tick count is reached, or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, callback func(ps []particle.Particle, st Stats, t float64) bool) error {
	cfg := s.world.Config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ps := s.world.Advance()
		st := s.world.LastStats()

		if cfg.ValidateState {
			if idx := firstInvalid(ps); idx >= 0 {
				return &SimError{Tick: st.Tick, Time: s.world.Time(), Particle: idx, Wrapped: ErrInvalidState}
			}
		}

		if !callback(ps, st, s.world.Time()) {
			return nil
		}
	}
	return nil
}

func frameCapacity(cfg Config) int {
	if cfg.SampleEvery <= 0 {
		return 0
	}
	return cfg.Ticks/cfg.SampleEvery + 1
}

func capture(ps []particle.Particle, tick int, t float64) Frame {
	f := Frame{Tick: tick, Time: t, Particles: make([]particle.State, len(ps))}
	for i := range ps {
		f.Particles[i] = ps[i].Snapshot()
	}
	return f
}

func kineticEnergy(ps []particle.Particle) float64 {
	e := 0.0
	for i := range ps {
		e += ps[i].KineticEnergy()
	}
	return e
}

func firstInvalid(ps []particle.Particle) int {
	for i := range ps {
		if !ps[i].IsValid() {
			return i
		}
	}
	return -1
}
