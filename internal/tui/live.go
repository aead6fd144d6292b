// Package tui draws a running simulation in the terminal, either with plain
// ANSI escapes or through a tcell screen.
package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/sim"
)

const (
	width       = 70
	height      = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that redraws the particle set at most
// frameRate times per second.
type LiveRenderer struct {
	out       io.Writer
	name      string
	bound     float64
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	contacts  int
}

func NewLiveRenderer(out io.Writer, name string, bound float64, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		name:      name,
		bound:     bound,
		frameRate: frameRate,
		canvas:    canvas,
	}
}

func (r *LiveRenderer) OnStep(ps []particle.Particle, st sim.Stats, t float64) {
	r.contacts += st.Contacts

	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	r.clear()
	r.frame()
	for i := range ps {
		c := 'o'
		if ps[i].Kind == particle.Fixed {
			c = '@'
		} else if ps[i].Speed() > 1 {
			c = 'O'
		}
		x, y := r.project(ps[i].Position[0], ps[i].Position[1])
		r.set(x, y, c)
	}
	r.render(len(ps), st, t)
}

// project maps world coordinates onto the character grid inside the frame.
func (r *LiveRenderer) project(x, y float64) (int, int) {
	u := (x + r.bound) / (2 * r.bound)
	v := (r.bound - y) / (2 * r.bound)
	cx := 1 + int(math.Round(u*float64(width-3)))
	cy := 1 + int(math.Round(v*float64(height-3)))
	return cx, cy
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) frame() {
	for x := 0; x < width; x++ {
		r.set(x, 0, '-')
		r.set(x, height-1, '-')
	}
	for y := 0; y < height; y++ {
		r.set(0, y, '|')
		r.set(width-1, y, '|')
	}
	r.set(0, 0, '+')
	r.set(width-1, 0, '+')
	r.set(0, height-1, '+')
	r.set(width-1, height-1, '+')
}

// set ignores positions outside the grid.
func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) render(n int, st sim.Stats, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  tick=%d  t=%.2fs\n", r.name, st.Tick, t))

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("  particles=%d candidates=%d contacts=%d (total %d) walls=%d\n",
		n, st.Candidates, st.Contacts, r.contacts, st.WallHits))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
