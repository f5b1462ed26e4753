package viz

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	zoomStep        = 1.25
	// fraction of the half canvas the initial system fills
	fitMargin = 0.9
)

type TickMsg time.Time

// Model drives a Clock from a frame tick and draws the published state.
// Each running frame advances StepsPerFrame steps, so the physics rate is
// FPS * StepsPerFrame steps per second regardless of render cost.
type Model struct {
	clock         *sim.Clock
	field         *physics.Gravity
	name          string
	cfg           config.LiveConfig
	theme         Theme
	canvas        *Canvas
	trails        [][]dynamo.Vec2
	center        dynamo.Vec2
	baseScale     float64
	zoom          float64
	running       bool
	initialEnergy float64
	energy        float64
	driftHistory  []float64
	snapshotDir   string
	message       string
	err           error
}

// NewModel builds a view over clock, fitted to the current extent of the
// system and centered on its center of mass.
func NewModel(clock *sim.Clock, field *physics.Gravity, name string, cfg config.LiveConfig) Model {
	if cfg.FPS < 1 {
		cfg.FPS = config.DefaultFPS
	}
	if cfg.StepsPerFrame < 1 {
		cfg.StepsPerFrame = config.DefaultStepsPerFrame
	}

	bodies := clock.Bodies()
	m := Model{
		clock:        clock,
		field:        field,
		name:         name,
		cfg:          cfg,
		theme:        ThemeSpace,
		canvas:       NewCanvas(width, height),
		trails:       make([][]dynamo.Vec2, len(bodies)),
		zoom:         1,
		running:      true,
		driftHistory: make([]float64, 0, historyCapacity),
		snapshotDir:  ".",
	}
	m.fit(bodies)
	m.initialEnergy = field.TotalEnergy(bodies)
	m.energy = m.initialEnergy
	return m
}

func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	return m
}

// WithSnapshotDir sets where the s key writes scenario snapshots.
func (m Model) WithSnapshotDir(dir string) Model {
	m.snapshotDir = dir
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "n":
			if !m.running && m.err == nil {
				m.advance(1)
			}
		case "+", "=":
			m.zoom *= zoomStep
		case "-", "_":
			m.zoom /= zoomStep
		case "c":
			m.zoom = 1
			m.fit(m.clock.Bodies())
		case "t":
			m.theme = NextTheme(m.theme)
		case "s":
			m.snapshot()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance(m.cfg.StepsPerFrame)
		}
		return m, m.tick()
	}
	return m, nil
}

// advance runs n steps and records the resulting state. A step that
// leaves a body with a non-finite state stops the view.
func (m *Model) advance(n int) {
	if err := m.clock.Run(context.Background(), n); err != nil {
		m.err = err
		m.running = false
	}
	m.record(m.clock.Bodies())
}

func (m *Model) record(bodies []dynamo.Body) {
	limit := m.cfg.Trail
	for i, b := range bodies {
		if limit <= 0 {
			break
		}
		m.trails[i] = append(m.trails[i], b.Pos)
		if len(m.trails[i]) > limit {
			m.trails[i] = m.trails[i][1:]
		}
	}

	m.energy = m.field.TotalEnergy(bodies)
	m.driftHistory = append(m.driftHistory, m.drift())
	if len(m.driftHistory) > historyCapacity {
		m.driftHistory = m.driftHistory[1:]
	}
}

// drift is the signed relative change of total energy since the view
// started.
func (m *Model) drift() float64 {
	if m.initialEnergy == 0 {
		return 0
	}
	return (m.energy - m.initialEnergy) / math.Abs(m.initialEnergy)
}

func (m *Model) fit(bodies []dynamo.Body) {
	m.center = physics.CenterOfMass(bodies)
	half := math.Min(float64(m.canvas.SubWidth()), float64(m.canvas.SubHeight())) / 2
	extent := physics.Extent(bodies)
	if extent == 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		m.baseScale = 1
		return
	}
	m.baseScale = half * fitMargin / extent
}

// project maps a world position to canvas sub-pixels, y up.
func (m *Model) project(p dynamo.Vec2) (int, int, bool) {
	scale := m.baseScale * m.zoom
	x := float64(m.canvas.SubWidth())/2 + (p.X-m.center.X)*scale
	y := float64(m.canvas.SubHeight())/2 - (p.Y-m.center.Y)*scale
	if math.IsNaN(x) || math.IsNaN(y) || math.Abs(x) > 1e6 || math.Abs(y) > 1e6 {
		return 0, 0, false
	}
	return int(math.Round(x)), int(math.Round(y)), true
}

// dotRadius maps a body's render radius to sub-pixels.
func dotRadius(r float64) int {
	d := int(r / 8)
	if d > 4 {
		d = 4
	}
	return d
}

func (m *Model) draw() {
	m.canvas.Clear()
	bodies := m.clock.Bodies()
	for i, tr := range m.trails {
		color := ""
		if i < len(bodies) {
			color = bodies[i].Color()
		}
		for _, p := range tr {
			if x, y, ok := m.project(p); ok {
				m.canvas.SetColor(x, y, color)
			}
		}
	}
	for _, d := range m.clock.Drawables() {
		if x, y, ok := m.project(d.Pos); ok {
			m.canvas.FillCircle(x, y, dotRadius(d.Radius), d.Color)
		}
	}
}

func (m *Model) snapshot() {
	if err := os.MkdirAll(m.snapshotDir, 0755); err != nil {
		m.message = "snapshot failed: " + err.Error()
		return
	}
	name := fmt.Sprintf("%s_step%d%s", baseName(m.name), m.clock.Steps(), scenario.Ext)
	path := filepath.Join(m.snapshotDir, name)
	if err := scenario.SaveFile(path, m.clock.Bodies()); err != nil {
		m.message = "snapshot failed: " + err.Error()
		return
	}
	m.message = "saved " + path
}

func baseName(name string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if name == "" || name == "." {
		return "snapshot"
	}
	return name
}

// View renders the TUI interface.
func (m Model) View() string {
	st := newStyles(m.theme)
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme))

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(baseName(m.name))) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.failed.Render("STOPPED") + "\n" + st.muted.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.driftHistory) > 1 {
		chart := asciigraph.Plot(m.driftHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy drift"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", FormatSimTime(m.clock.Time()))
	row("Steps", fmt.Sprintf("%d", m.clock.Steps()))
	row("Bodies", fmt.Sprintf("%d", m.clock.Len()))
	row("dt", fmt.Sprintf("%gs", m.clock.Dt()))
	row("Rate", fmt.Sprintf("%d steps/s", m.cfg.FPS*m.cfg.StepsPerFrame))
	row("Zoom", fmt.Sprintf("%.2fx", m.zoom))
	row("Energy", fmt.Sprintf("%.6e", m.energy))
	row("Drift", fmt.Sprintf("%+.3e", m.drift()))
	if m.message != "" {
		s.WriteString("\n" + st.muted.Render(m.message) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(36, st.muted) + "\n" +
		st.keyHints("space", "pause", "n", "step", "q", "quit") + "\n" +
		st.keyHints("+/-", "zoom", "c", "center", "s", "save") + "\n" +
		st.keyHints("t", "theme")))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// FormatSimTime prints simulated seconds in the largest fitting unit.
func FormatSimTime(t float64) string {
	const (
		hour = 3600.0
		day  = 24 * hour
		year = 365.25 * day
	)
	switch a := math.Abs(t); {
	case a >= 2*year:
		return fmt.Sprintf("%.2f yr", t/year)
	case a >= day:
		return fmt.Sprintf("%.2f d", t/day)
	case a >= hour:
		return fmt.Sprintf("%.2f h", t/hour)
	default:
		return fmt.Sprintf("%.3f s", t)
	}
}

// Run shows m full screen until the user quits.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
