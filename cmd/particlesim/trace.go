package main

import (
	"fmt"
	"io"
	"os"

	"github.com/san-kum/particlesim/internal/bvh"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/export"
	"github.com/san-kum/particlesim/internal/sim"
)

var traceFormats = []string{"csv", "json", "msgpack", "svg", "trajectory"}

func writeTrace(w io.Writer, format string, cfg *config.Config, world *sim.World, result *sim.Result) error {
	opts := export.DefaultSVGOptions()
	opts.Bound = cfg.Bound

	switch format {
	case "csv":
		return export.WriteCSV(w, result.Frames)
	case "json":
		simCfg, err := cfg.ToSim()
		if err != nil {
			return err
		}
		return export.WriteJSON(w, export.NewReport(cfg.Scenario, cfg.Init.Seed, simCfg, result, true))
	case "msgpack":
		simCfg, err := cfg.ToSim()
		if err != nil {
			return err
		}
		return export.WriteMsgpack(w, export.NewReport(cfg.Scenario, cfg.Init.Seed, simCfg, result, true))
	case "svg":
		if len(result.Frames) == 0 {
			return fmt.Errorf("no frames recorded (sample_every is 0)")
		}
		if tree, ok := world.BroadPhase().(*bvh.Tree); ok {
			opts.Tree = tree
		}
		return export.WriteSnapshotSVG(w, result.Frames[len(result.Frames)-1], opts)
	case "trajectory":
		return export.WriteTrajectorySVG(w, result.Frames, opts)
	}
	return fmt.Errorf("unknown format: %s (available: %v)", format, traceFormats)
}

// writeTraceFile writes the trace to path. The close error is returned when
// the write itself succeeded.
func writeTraceFile(path, format string, cfg *config.Config, world *sim.World, result *sim.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return writeTrace(f, format, cfg, world, result)
}
