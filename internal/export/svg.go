package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/particlesim/internal/bvh"
	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/sim"
)

// SVGOptions controls the size and contents of SVG output.
type SVGOptions struct {
	Size   int
	Bound  float64
	Radius float64
	// Tree, when set, draws the bounds of every internal node.
	Tree *bvh.Tree
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Size: 512, Bound: sim.DefaultBound, Radius: sim.DefaultWallMargin}
}

type svgWriter struct {
	sb   strings.Builder
	opts SVGOptions
}

func newSVG(opts SVGOptions) *svgWriter {
	w := &svgWriter{opts: opts}
	w.sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Size, opts.Size, opts.Size, opts.Size))
	return w
}

// px maps world coordinates to pixels with y pointing down.
func (w *svgWriter) px(x, y float64) (float64, float64) {
	s := float64(w.opts.Size) / (2 * w.opts.Bound)
	return (x + w.opts.Bound) * s, (w.opts.Bound - y) * s
}

func (w *svgWriter) scale(d float64) float64 {
	return d * float64(w.opts.Size) / (2 * w.opts.Bound)
}

func (w *svgWriter) tree() {
	if w.opts.Tree == nil {
		return
	}
	w.sb.WriteString(`<g fill="none" stroke="#444466" stroke-width="1">` + "\n")
	w.opts.Tree.Walk(func(n bvh.NodeView) bool {
		if n.IsLeaf() {
			return false
		}
		x, y := w.px(n.Bounds.MinX, n.Bounds.MaxY)
		bw, bh := n.Bounds.Extent()
		w.sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			x, y, w.scale(bw), w.scale(bh)))
		return true
	})
	w.sb.WriteString("</g>\n")
}

func (w *svgWriter) particles(ps []particle.State) {
	r := w.scale(w.opts.Radius)
	for _, p := range ps {
		fill := "#00ffff"
		if p.Kind == particle.Fixed {
			fill = "#ff00ff"
		}
		cx, cy := w.px(p.Position[0], p.Position[1])
		w.sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", cx, cy, r, fill))
	}
}

func (w *svgWriter) flush(out io.Writer) error {
	w.sb.WriteString("</svg>\n")
	_, err := io.WriteString(out, w.sb.String())
	return err
}

// WriteSnapshotSVG draws a single frame.
func WriteSnapshotSVG(out io.Writer, f sim.Frame, opts SVGOptions) error {
	w := newSVG(opts)
	w.tree()
	w.particles(f.Particles)
	return w.flush(out)
}

// WriteTrajectorySVG draws the path of every particle across frames and the
// particles at their final positions.
func WriteTrajectorySVG(out io.Writer, frames []sim.Frame, opts SVGOptions) error {
	w := newSVG(opts)
	if len(frames) == 0 {
		return w.flush(out)
	}

	n := len(frames[0].Particles)
	w.sb.WriteString(`<g fill="none" stroke="#00aa88" stroke-width="1" stroke-opacity="0.6">` + "\n")
	for i := 0; i < n; i++ {
		w.sb.WriteString(`<path d="`)
		for j, f := range frames {
			if i >= len(f.Particles) {
				break
			}
			x, y := w.px(f.Particles[i].Position[0], f.Particles[i].Position[1])
			if j == 0 {
				w.sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				w.sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		w.sb.WriteString(`"/>` + "\n")
	}
	w.sb.WriteString("</g>\n")

	w.particles(frames[len(frames)-1].Particles)
	return w.flush(out)
}
