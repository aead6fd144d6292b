// Package optim sweeps run parameters and ranks the outcomes.
package optim

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/sim"
)

// Objective scores a finished run. Lower is better.
type Objective func(*sim.Result) float64

// ByMetric scores a run by one of its named metrics.
func ByMetric(name string) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

// Negate turns a maximised quantity into a minimised one.
func Negate(o Objective) Objective {
	return func(r *sim.Result) float64 { return -o(r) }
}

// FromConfig builds each grid point as a copy of base with the point's
// parameters applied by name.
func FromConfig(base *config.Config) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

// Trial is one point of the grid. Err is set when the run could not be built
// or stopped on an invalid state, and Value is then +Inf.
type Trial struct {
	Params map[string]float64
	Value  float64
	Steps  int
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every combination and returns the trials best first. Ties keep
// grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) ([]Trial, error) {
	trials := make([]Trial, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, objective, &trials); err != nil {
		return nil, err
	}

	sort.SliceStable(trials, func(i, j int) bool {
		return trials[i].Value < trials[j].Value
	})
	return trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		trial := Trial{Params: current, Value: math.Inf(1)}

		exp, err := buildExperiment(current)
		if err != nil {
			trial.Err = err
			*trials = append(*trials, trial)
			return nil
		}

		result, err := exp.Run(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if result != nil {
			trial.Steps = result.StepsTaken
		}
		if err != nil {
			trial.Err = err
		} else {
			trial.Value = objective(result)
		}
		slog.Debug("trial finished", "params", current, "value", trial.Value, "err", trial.Err)
		*trials = append(*trials, trial)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, objective, trials); err != nil {
			return err
		}
	}
	return nil
}
