package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/bvh"
	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/sim"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600
	frameRate       = 60
)

// Snapshot stores the particle set at a tick for replay.
type Snapshot struct {
	Tick      int
	Particles []particle.State
	Energy    float64
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model hosts a World in a Bubble Tea program and advances it once per
// frame while running.
type Model struct {
	world   *sim.World
	initial func() ([]particle.Particle, error)
	name    string

	layers    [3]*Canvas
	running   bool
	showTree  bool
	showHelp  bool
	err       error
	totals    sim.Stats
	energy    []float64
	contacts  []float64
	history   []Snapshot
	playHead  int
	tickLimit int
}

const (
	layerParticles = iota
	layerFixed
	layerTree
)

// NewModel wraps world. initial must return a fresh copy of the starting
// particles; it backs the reset key.
func NewModel(world *sim.World, name string, initial func() ([]particle.Particle, error)) Model {
	bound := world.Config().Bound
	m := Model{
		world:     world,
		initial:   initial,
		name:      name,
		running:   true,
		energy:    make([]float64, 0, historyCapacity),
		contacts:  make([]float64, 0, historyCapacity),
		history:   make([]Snapshot, 0, historyCapacity),
		playHead:  -1,
		tickLimit: world.Config().Ticks,
	}
	for i := range m.layers {
		m.layers[i] = NewCanvas(width, height, bound)
	}
	m.record()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n", ".":
			if !m.running && m.playHead == -1 {
				m.step()
			}
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "b":
			m.showTree = !m.showTree
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances the world one tick. It pauses at the configured tick limit
// and on invalid state.
func (m *Model) step() {
	if m.err != nil || (m.tickLimit > 0 && m.world.Tick() >= m.tickLimit) {
		m.running = false
		return
	}

	ps := m.world.Advance()
	st := m.world.LastStats()
	for i := range ps {
		if !ps[i].IsValid() {
			m.err = &sim.SimError{Tick: st.Tick, Time: m.world.Time(), Particle: i, Wrapped: sim.ErrInvalidState}
			m.running = false
			break
		}
	}

	m.totals.Candidates += st.Candidates
	m.totals.Contacts += st.Contacts
	m.totals.WallHits += st.WallHits
	m.contacts = appendCapped(m.contacts, float64(st.Contacts))
	m.record()
}

func (m *Model) record() {
	ps := m.world.Particles()
	snap := Snapshot{Tick: m.world.Tick(), Particles: make([]particle.State, len(ps))}
	for i := range ps {
		snap.Particles[i] = ps[i].Snapshot()
		snap.Energy += ps[i].KineticEnergy()
	}
	m.energy = appendCapped(m.energy, snap.Energy)
	m.history = append(m.history, snap)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	ps, err := m.initial()
	if err != nil {
		m.err = err
		return
	}
	m.world.Reset(ps)
	m.err = nil
	m.totals = sim.Stats{}
	m.energy = m.energy[:0]
	m.contacts = m.contacts[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.record()
}

// current returns the snapshot on screen: the replay position while
// scrubbing, the latest tick otherwise.
func (m Model) current() Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.history[len(m.history)-1]
}

func (m Model) draw(snap Snapshot) {
	for _, l := range m.layers {
		l.Clear()
	}

	radius := m.world.Config().WallMargin
	for _, p := range snap.Particles {
		layer := m.layers[layerParticles]
		if p.Kind == particle.Fixed {
			layer = m.layers[layerFixed]
		}
		layer.Disc(p.Position, radius)
	}

	if !m.showTree || m.playHead != -1 {
		return
	}
	if tree, ok := m.world.BroadPhase().(*bvh.Tree); ok {
		tree.Walk(func(n bvh.NodeView) bool {
			if !n.IsLeaf() {
				m.layers[layerTree].Box(n.Bounds)
			}
			return true
		})
	}
}

// compose overlays the layers cell by cell. The first non-blank layer in
// priority order picks the colour; the dots of all layers are merged.
func (m Model) compose() string {
	styles := [3]lipgloss.Style{
		lipgloss.NewStyle().Foreground(CurrentTheme.Particle),
		lipgloss.NewStyle().Foreground(CurrentTheme.Fixed),
		lipgloss.NewStyle().Foreground(CurrentTheme.Tree),
	}
	order := [3]int{layerFixed, layerParticles, layerTree}

	var b strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			cell := rune(blank)
			style := -1
			for _, l := range order {
				r := m.layers[l].Grid[row][col]
				if r == blank {
					continue
				}
				cell |= r
				if style == -1 {
					style = l
				}
			}
			if style == -1 {
				b.WriteRune(cell)
				continue
			}
			b.WriteString(styles[style].Render(string(cell)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) View() string {
	snap := m.current()
	m.draw(snap)

	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(CurrentTheme.Wall)
	canvasView := canvasStyle.Render(border.Render(strings.TrimSuffix(m.compose(), "\n")))

	var s strings.Builder
	header := headerStyle.Foreground(CurrentTheme.Accent)
	s.WriteString(header.Render(strings.ToUpper(m.name)) + "\n")

	cfg := m.world.Config()
	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render("HALTED: " + m.err.Error())
	case m.playHead != -1:
		status = StatusPaused.Render(fmt.Sprintf("REPLAY (tick %d)", snap.Tick))
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n")

	if m.tickLimit > 0 {
		s.WriteString(ProgressBar(float64(m.world.Tick())/float64(m.tickLimit), 30) + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	last := m.world.LastStats()
	row("Tick", fmt.Sprintf("%d", snap.Tick))
	row("Time", fmt.Sprintf("%.3fs", float64(snap.Tick)*cfg.Dt))
	row("Particles", fmt.Sprintf("%d", len(snap.Particles)))
	row("Energy", fmt.Sprintf("%.4f", snap.Energy))
	row("Candidates", fmt.Sprintf("%d", last.Candidates))
	row("Contacts", fmt.Sprintf("%d (total %d)", last.Contacts, m.totals.Contacts))
	row("Wall hits", fmt.Sprintf("%d", m.totals.WallHits))
	row("Broad phase", m.world.BroadPhase().Name())
	if tree, ok := m.world.BroadPhase().(*bvh.Tree); ok {
		row("Tree", fmt.Sprintf("%d nodes, depth %d", tree.NodeCount(), tree.Depth()))
	}
	s.WriteString(labelStyle.Render("Contacts") + Sparkline(m.contacts, 30) + "\n")

	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause N:Step R:Reset Q:Quit\nB:Tree T:Theme [ ]:Replay ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Advance one tick         ║
║  R        - Reset to initial state   ║
║  [ ]      - Step through history     ║
║  B        - Toggle BVH node bounds   ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

// Run starts a full-screen program around m.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
