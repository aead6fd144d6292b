// Package experiment assembles a runnable simulation from a file config.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/scenario"
	"github.com/san-kum/particlesim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *scenario.Registry
	world     *sim.World
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: scenario.NewRegistry(),
	}
}

// Setup builds the initial particles and the world. With no metrics given
// the standard set is attached.
func (e *Experiment) Setup(ms ...sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	simCfg, err := e.cfg.ToSim()
	if err != nil {
		return err
	}

	ps, err := e.Particles()
	if err != nil {
		return err
	}

	e.world, err = sim.NewWorld(ps, simCfg)
	if err != nil {
		return err
	}
	e.simulator = sim.New(e.world)

	if len(ms) == 0 {
		ms = metrics.Standard(simCfg.Bound)
	}
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

// Particles returns a fresh copy of the configured initial set.
func (e *Experiment) Particles() ([]particle.Particle, error) {
	return e.registry.Get(e.cfg.Scenario, e.cfg.Params())
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx)
}

// Reset restores the initial particle set and rewinds the clock.
func (e *Experiment) Reset() error {
	if e.world == nil {
		return fmt.Errorf("experiment not setup")
	}
	ps, err := e.Particles()
	if err != nil {
		return err
	}
	e.world.Reset(ps)
	return nil
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) World() *sim.World            { return e.world }
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }
