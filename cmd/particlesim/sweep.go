package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/particlesim/internal/optim"
	"github.com/spf13/cobra"
)

// parseGrid turns "name=v1,v2" args into parallel name and value slices.
func parseGrid(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad parameter %q, want name=v1,v2", arg)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in %q: %w", arg, err)
			}
			vals = append(vals, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names, ranges, err := parseGrid(sweepParams)
	if err != nil {
		return err
	}

	base, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	base.SampleEvery = 0

	score := optim.ByMetric(objective)
	if maximize {
		score = optim.Negate(score)
	}

	g := optim.NewGridSearch(names, ranges)
	fmt.Printf("sweeping %s over %d points, ranked by %s\n\n", base.Scenario, g.Size(), objective)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trials, err := g.Search(ctx, optim.FromConfig(base), score)
	if err != nil {
		return err
	}

	keys := append([]string(nil), names...)
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(keys, "\t"))+"\tSTEPS\t"+strings.ToUpper(objective))
	for i, tr := range trials {
		if top > 0 && i >= top {
			break
		}
		for _, k := range keys {
			fmt.Fprintf(w, "%g\t", tr.Params[k])
		}
		if tr.Err != nil {
			fmt.Fprintf(w, "%d\terror: %v\n", tr.Steps, tr.Err)
			continue
		}
		v := tr.Value
		if maximize {
			v = -v
		}
		fmt.Fprintf(w, "%d\t%.6f\n", tr.Steps, v)
	}
	return w.Flush()
}
