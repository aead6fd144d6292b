package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/particlesim/internal/sim"
)

// Report is the JSON document written for a run.
type Report struct {
	Scenario    string             `json:"scenario"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Ticks       int                `json:"ticks"`
	BroadPhase  string             `json:"broad_phase"`
	Pairs       string             `json:"pairs"`
	Steps       int                `json:"steps"`
	Candidates  int                `json:"candidates"`
	Contacts    int                `json:"contacts"`
	WallHits    int                `json:"wall_hits"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
	Frames      []FrameJSON        `json:"frames,omitempty"`
}

type FrameJSON struct {
	Tick      int            `json:"tick"`
	Time      float64        `json:"time"`
	Particles []ParticleJSON `json:"particles"`
}

type ParticleJSON struct {
	Kind     string     `json:"kind"`
	Mass     float64    `json:"mass"`
	Position [2]float64 `json:"position"`
	Velocity [2]float64 `json:"velocity"`
}

// NewReport summarises result. Frames are included only when withFrames is
// set.
func NewReport(scenario string, seed int64, cfg sim.Config, result *sim.Result, withFrames bool) Report {
	r := Report{
		Scenario:    scenario,
		Seed:        seed,
		Dt:          cfg.Dt,
		Ticks:       cfg.Ticks,
		BroadPhase:  cfg.BroadPhase,
		Pairs:       cfg.Pairs.String(),
		Steps:       result.StepsTaken,
		Candidates:  result.Totals.Candidates,
		Contacts:    result.Totals.Contacts,
		WallHits:    result.Totals.WallHits,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
	if !withFrames {
		return r
	}

	r.Frames = make([]FrameJSON, len(result.Frames))
	for i, f := range result.Frames {
		fj := FrameJSON{Tick: f.Tick, Time: f.Time, Particles: make([]ParticleJSON, len(f.Particles))}
		for j, p := range f.Particles {
			fj.Particles[j] = ParticleJSON{
				Kind:     p.Kind.String(),
				Mass:     p.Mass,
				Position: p.Position,
				Velocity: p.Velocity,
			}
		}
		r.Frames[i] = fj
	}
	return r
}

func WriteJSON(out io.Writer, r Report) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
