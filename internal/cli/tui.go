package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/astroplot/pkg/colormap"
	"github.com/matzehuels/astroplot/pkg/nodal"
	"github.com/matzehuels/astroplot/pkg/render"
	"github.com/matzehuels/astroplot/pkg/sphere"
)

// View styles
var (
	nodeStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	statusDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	statusBusyStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// Camera steps for the arrow keys, in degrees.
const (
	azimuthStep   = 15
	elevationStep = 15
)

// sphereKeys are the bindings of the sphere preview.
type sphereKeys struct {
	Left, Right, Up, Down key.Binding
	Pause, Quit           key.Binding
}

func newSphereKeys() sphereKeys {
	return sphereKeys{
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "azimuth")),
		Right: key.NewBinding(key.WithKeys("right", "l")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "elevation")),
		Down:  key.NewBinding(key.WithKeys("down", "j")),
		Pause: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k sphereKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.Pause, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k sphereKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// =============================================================================
// SphereModel - Animated terminal preview
// =============================================================================

// tickMsg advances the animation by one frame.
type tickMsg time.Time

// SphereModel is the bubbletea model that plays an oscillating sphere as
// coloured characters.
type SphereModel struct {
	Grid   render.Grid
	Colour *colormap.Map

	Phases   []float64
	Frame    int
	Interval time.Duration
	Paused   bool

	keys   sphereKeys
	help   help.Model
	styles map[string]lipgloss.Style
}

// newSphereModel builds a model playing anim. Nodal lines are marked when
// showNodal is set.
func newSphereModel(anim render.Animation, lines nodal.Lines, showNodal bool) SphereModel {
	frames := max(anim.Frames, 1)
	period := anim.Period
	if period <= 0 {
		period = render.DefaultPeriod
	}
	if !showNodal {
		lines = nodal.Lines{L: lines.L, M: lines.M}
	}
	return SphereModel{
		Grid: render.Grid{
			Mesh:    anim.Mesh,
			Lines:   lines,
			Camera:  anim.Camera,
			Pattern: anim.Pattern,
			Cols:    48,
			Rows:    24,
		},
		Colour:   anim.Colour,
		Phases:   sphere.Phases(frames),
		Interval: period / time.Duration(frames),
		keys:     newSphereKeys(),
		help:     help.New(),
		styles:   make(map[string]lipgloss.Style),
	}
}

func (m SphereModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m SphereModel) Init() tea.Cmd {
	return m.tick()
}

func (m SphereModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.Paused = !m.Paused
		case key.Matches(msg, m.keys.Left):
			m.Grid.Camera.Azimuth -= azimuthStep
		case key.Matches(msg, m.keys.Right):
			m.Grid.Camera.Azimuth += azimuthStep
		case key.Matches(msg, m.keys.Up):
			m.Grid.Camera.Elevation = max(m.Grid.Camera.Elevation-elevationStep, 0)
		case key.Matches(msg, m.keys.Down):
			m.Grid.Camera.Elevation = min(m.Grid.Camera.Elevation+elevationStep, 180)
		}
	case tea.WindowSizeMsg:
		rows := max(min(msg.Height-4, msg.Width/2), 4)
		m.Grid.Rows = rows
		m.Grid.Cols = 2 * rows
		m.help.Width = msg.Width
	case tickMsg:
		if !m.Paused && len(m.Phases) > 0 {
			m.Frame = (m.Frame + 1) % len(m.Phases)
		}
		return m, m.tick()
	}
	return m, nil
}

// style returns a cached foreground style for v.
func (m SphereModel) style(v float64) lipgloss.Style {
	hex := m.Colour.Hex(v)
	if st, ok := m.styles[hex]; ok {
		return st
	}
	st := lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	if m.styles != nil {
		m.styles[hex] = st
	}
	return st
}

func (m SphereModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Y_%d^%d", m.Grid.Mesh.L, m.Grid.Mesh.M)))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	g := m.Grid
	if len(m.Phases) > 0 {
		g.Phase = m.Phases[m.Frame]
	}
	for _, row := range render.Cells(g) {
		for _, c := range row {
			ch := string(render.Char(c))
			switch {
			case !c.Inside:
				b.WriteString(ch)
			case c.Node:
				b.WriteString(nodeStyle.Render(ch))
			case m.Colour != nil:
				b.WriteString(m.style(c.Value).Render(ch))
			default:
				b.WriteString(ch)
			}
		}
		b.WriteString("\n")
	}

	status := fmt.Sprintf("frame %d/%d · view %.0f°, %.0f°", m.Frame+1, len(m.Phases),
		g.Camera.Azimuth, g.Camera.Elevation)
	if m.Paused {
		b.WriteString(statusBusyStyle.Render(status + " · paused"))
	} else {
		b.WriteString(statusDimStyle.Render(status))
	}
	return b.String()
}

// runSphereTUI plays m until the user quits or ctx is cancelled.
func runSphereTUI(ctx context.Context, m SphereModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
