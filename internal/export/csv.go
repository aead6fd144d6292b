// Package export writes recorded frames as CSV, JSON or SVG.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/particlesim/internal/sim"
)

var csvHeader = []string{"tick", "time", "particle", "kind", "mass", "x", "y", "vx", "vy"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV writes one row per particle per frame.
func WriteCSV(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, f := range frames {
		tick := strconv.Itoa(f.Tick)
		t := formatFloat(f.Time)
		for i, p := range f.Particles {
			row := []string{
				tick,
				t,
				strconv.Itoa(i),
				p.Kind.String(),
				formatFloat(p.Mass),
				formatFloat(p.Position[0]),
				formatFloat(p.Position[1]),
				formatFloat(p.Velocity[0]),
				formatFloat(p.Velocity[1]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
