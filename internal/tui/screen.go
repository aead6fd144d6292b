package tui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/sim"
)

var (
	frameStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	dynamicStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	fastStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	fixedStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// ScreenRenderer is a sim.Observer drawing into a tcell screen. The grid
// follows the screen size, minus one status row at the top and one at the
// bottom.
type ScreenRenderer struct {
	screen    tcell.Screen
	name      string
	bound     float64
	frameRate int
	lastFrame time.Time
	contacts  int
}

func NewScreenRenderer(s tcell.Screen, name string, bound float64, frameRate int) *ScreenRenderer {
	return &ScreenRenderer{
		screen:    s,
		name:      name,
		bound:     bound,
		frameRate: frameRate,
	}
}

// OpenScreen initialises the terminal screen.
func OpenScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.HideCursor()
	return s, nil
}

func (r *ScreenRenderer) OnStep(ps []particle.Particle, st sim.Stats, t float64) {
	r.contacts += st.Contacts

	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	w, h := r.screen.Size()
	if w < 4 || h < 5 {
		return
	}
	r.screen.Clear()

	r.text(0, 0, fmt.Sprintf("%s  tick=%d  t=%.2fs  (q to quit)", r.name, st.Tick, t))
	r.border(w, h-2)
	for i := range ps {
		style, c := dynamicStyle, 'o'
		if ps[i].Kind == particle.Fixed {
			style, c = fixedStyle, '@'
		} else if ps[i].Speed() > 1 {
			style, c = fastStyle, 'O'
		}
		x, y := r.project(ps[i].Position[0], ps[i].Position[1], w, h-2)
		r.screen.SetContent(x, y+1, c, nil, style)
	}
	r.text(0, h-1, fmt.Sprintf("particles=%d candidates=%d contacts=%d (total %d) walls=%d",
		len(ps), st.Candidates, st.Contacts, r.contacts, st.WallHits))

	r.screen.Show()
}

// project maps world coordinates into a w×h box with a one-cell border.
func (r *ScreenRenderer) project(x, y float64, w, h int) (int, int) {
	u := (x + r.bound) / (2 * r.bound)
	v := (r.bound - y) / (2 * r.bound)
	cx := 1 + int(math.Round(u*float64(w-3)))
	cy := 1 + int(math.Round(v*float64(h-3)))
	return cx, cy
}

func (r *ScreenRenderer) border(w, h int) {
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, 1, '─', nil, frameStyle)
		r.screen.SetContent(x, h, '─', nil, frameStyle)
	}
	for y := 1; y <= h; y++ {
		r.screen.SetContent(0, y, '│', nil, frameStyle)
		r.screen.SetContent(w-1, y, '│', nil, frameStyle)
	}
	r.screen.SetContent(0, 1, '┌', nil, frameStyle)
	r.screen.SetContent(w-1, 1, '┐', nil, frameStyle)
	r.screen.SetContent(0, h, '└', nil, frameStyle)
	r.screen.SetContent(w-1, h, '┘', nil, frameStyle)
}

func (r *ScreenRenderer) text(x, y int, s string) {
	for _, c := range s {
		r.screen.SetContent(x, y, c, nil, statusStyle)
		x++
	}
}

// Listen cancels the run when the user presses q, Esc or Ctrl-C. It returns
// once ctx is done or the screen stops delivering events.
func (r *ScreenRenderer) Listen(ctx context.Context, cancel context.CancelFunc) {
	for ctx.Err() == nil {
		ev := r.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				cancel()
				return
			}
		case *tcell.EventResize:
			r.screen.Sync()
		}
	}
}

// Close restores the terminal.
func (r *ScreenRenderer) Close() { r.screen.Fini() }
