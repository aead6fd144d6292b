package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/scenario"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	keyDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
)

// param is one editable field of the config screen.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
	step float64
}

var params = []param{
	{"count", func(c *config.Config) float64 { return float64(c.Init.Count) }, func(c *config.Config, v float64) { c.Init.Count = max(0, int(v)) }, 5},
	{"speed", func(c *config.Config) float64 { return c.Init.Speed }, func(c *config.Config, v float64) { c.Init.Speed = max(0, v) }, 0.1},
	{"seed", func(c *config.Config) float64 { return float64(c.Init.Seed) }, func(c *config.Config, v float64) { c.Init.Seed = int64(v) }, 1},
	{"gravity", func(c *config.Config) float64 { return c.Gravity[1] }, func(c *config.Config, v float64) { c.Gravity[1] = v }, 0.5},
	{"dt", func(c *config.Config) float64 { return c.Dt }, func(c *config.Config, v float64) { c.Dt = max(0.001, v) }, 0.002},
	{"ticks", func(c *config.Config) float64 { return float64(c.Ticks) }, func(c *config.Config, v float64) { c.Ticks = max(0, int(v)) }, 100},
}

type app struct {
	state       int
	cursor      int
	scenarios   []string
	registry    *scenario.Registry
	cfg         *config.Config
	paramCursor int
	editing     bool
	editBuf     string
	err         error
	live        Model
}

// NewInteractiveApp starts on the scenario menu. Configs for the chosen
// scenario start from base.
func NewInteractiveApp(base *config.Config) *app {
	r := scenario.NewRegistry()
	cfg := *base
	return &app{
		state:     stateMenu,
		scenarios: r.List(),
		registry:  r,
		cfg:       &cfg,
	}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch a.state {
		case stateMenu:
			return a.menuKey(msg)
		case stateConfig:
			return a.configKey(msg)
		}
	}
	if a.state == stateSim {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	return a, nil
}

func (a app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.scenarios)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.cfg.Scenario = a.scenarios[a.cursor]
		a.state, a.paramCursor, a.err = stateConfig, 0, nil
	}
	return a, nil
}

func (a app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	p := params[a.paramCursor]
	if a.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(a.editBuf, "%f", &val); err == nil {
				p.set(a.cfg, val)
			}
			a.editing, a.editBuf = false, ""
		case "esc":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					a.editBuf += s
				}
			}
		}
		return a, nil
	}

	switch msg.String() {
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.paramCursor > 0 {
			a.paramCursor--
		}
	case "down", "j":
		if a.paramCursor < len(params)-1 {
			a.paramCursor++
		}
	case "enter", " ":
		a.editing, a.editBuf = true, fmt.Sprintf("%g", p.get(a.cfg))
	case "left", "h":
		p.set(a.cfg, p.get(a.cfg)-p.step)
	case "right", "l":
		p.set(a.cfg, p.get(a.cfg)+p.step)
	case "s":
		return a.start()
	}
	return a, nil
}

func (a app) start() (app, tea.Cmd) {
	cfg := *a.cfg
	exp := experiment.New(&cfg)
	if err := exp.Setup(); err != nil {
		a.err = err
		return a, nil
	}
	a.live = NewModel(exp.World(), cfg.Scenario, exp.Particles)
	a.state = stateSim
	return a, a.live.Init()
}

func (a app) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateConfig:
		return a.viewConfig()
	default:
		return a.live.View()
	}
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + keyDescStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (a app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("PARTICLESIM") + "\n    " + subStyle.Render("2d collision sandbox") + "\n    " + subStyle.Render(strings.Repeat("─", 25)) + "\n\n")
	for i, name := range a.scenarios {
		desc := a.registry.Describe(name)
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), idleDesc.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (a app) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(a.cfg.Scenario)) + "\n    " + subStyle.Render(a.registry.Describe(a.cfg.Scenario)) + "\n    " + subStyle.Render(strings.Repeat("─", 25)) + "\n\n")
	for i, p := range params {
		val := fmt.Sprintf("%8.3f", p.get(a.cfg))
		if a.editing && i == a.paramCursor {
			val = fmt.Sprintf("%8s", a.editBuf+"_")
		}
		if i == a.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", p.name)), descStyle.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", p.name)), idleDesc.Render(val)))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the scenario picker.
func RunInteractive(base *config.Config) error {
	_, err := tea.NewProgram(NewInteractiveApp(base), tea.WithAltScreen()).Run()
	return err
}
