package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/distgrab/internal/config"
	"github.com/san-kum/distgrab/internal/grab"
	"github.com/san-kum/distgrab/internal/sim"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
	eventCapacity   = 6
	pointerLength   = 1.5
	maxSpeed        = 8
)

type TickMsg time.Time

// Model plays a scene in the terminal, one or more ticks per redraw.
type Model struct {
	cfg     *config.Config
	log     *zap.Logger
	scene   *sim.Scene
	frame   sim.Frame
	step    int
	steps   int
	running bool
	done    bool
	speed   int

	canvas  *Canvas
	view    Viewport
	rails   []string
	history map[string][]float64
	events  []string
}

// NewModel builds the scene described by cfg and shows its first frame.
func NewModel(cfg *config.Config, log *zap.Logger) (Model, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := Model{
		cfg:     cfg,
		log:     log,
		steps:   cfg.Steps(),
		running: true,
		speed:   1,
		canvas:  NewCanvas(width, height),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	m.view = Fit(scenePoints(cfg), m.canvas, 0.5)
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance()
			}
		case "r":
			if err := m.reset(); err != nil {
				m.log.Error("reset failed", zap.Error(err))
				return m, tea.Quit
			}
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			NextTheme()
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.speed && !m.done; i++ {
				m.advance()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) reset() error {
	scene, err := sim.Build(m.cfg, m.log)
	if err != nil {
		return err
	}
	m.scene = scene
	m.step = 0
	m.done = false
	m.frame = scene.Snapshot(0, 0)
	m.rails = scene.Registry().Rails()
	m.history = make(map[string][]float64, len(m.rails))
	m.events = m.events[:0]
	m.record()
	return nil
}

func (m *Model) advance() {
	if m.step >= m.steps {
		m.done = true
		return
	}
	m.step++
	m.frame = m.scene.Step(m.step, float64(m.step)*m.cfg.Dt, m.cfg.Dt)
	m.record()
	if m.step >= m.steps {
		m.done = true
	}
}

func (m *Model) record() {
	for _, id := range m.rails {
		o, ok := m.frame.Object(id)
		if !ok {
			continue
		}
		h := append(m.history[id], o.Rail)
		if len(h) > historyCapacity {
			h = h[1:]
		}
		m.history[id] = h
	}
	for _, e := range m.frame.Events {
		m.events = append(m.events, fmt.Sprintf("%6.2fs %-5s %-13s %s", e.Time, e.Hand, e.Kind, e.Object))
	}
	if len(m.events) > eventCapacity {
		m.events = m.events[len(m.events)-eventCapacity:]
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle().Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.cfg.Name)) + "\n")
	s.WriteString(statusStyle(m.running, m.done).Render(m.status()) + "\n")
	s.WriteString(ProgressBar(float64(m.step)/float64(max(m.steps, 1)), 30) + "\n\n")
	s.WriteString(labelStyle().Render("Time") + valueStyle().Render(fmt.Sprintf("%.2fs", m.frame.Time)) + "\n")
	s.WriteString(labelStyle().Render("Speed") + valueStyle().Render(fmt.Sprintf("x%d", m.speed)) + "\n\n")

	s.WriteString("HANDS\n")
	for _, h := range m.frame.Hands {
		line := fmt.Sprintf("%-6s %-8s", h.ID, h.Phase)
		switch {
		case h.Target != "":
			line += " -> " + h.Target
		case h.Holding != "":
			line += " holds " + h.Holding
		}
		s.WriteString("  " + valueStyle().Render(line) + "\n")
	}

	s.WriteString("\nOBJECTS\n")
	for _, o := range m.frame.Objects {
		line := fmt.Sprintf("%-8s %-4s (%5.2f %5.2f %5.2f)", o.ID, o.Mode, o.Position.X(), o.Position.Y(), o.Position.Z())
		switch {
		case !o.Alive:
			line += " gone"
		case o.Owner != "":
			line += " @" + o.Owner
		}
		if o.Highlighted {
			s.WriteString("* " + highlightStyle().Render(line) + "\n")
		} else {
			s.WriteString("  " + labelStyle().UnsetWidth().Render(line) + "\n")
		}
	}

	for _, id := range m.rails {
		if h := m.history[id]; len(h) > 1 {
			chart := asciigraph.Plot(h,
				asciigraph.Height(4), asciigraph.Width(30),
				asciigraph.LowerBound(0), asciigraph.UpperBound(1),
				asciigraph.Caption(id+" rail"))
			s.WriteString("\n" + chart + "\n")
		}
	}

	if len(m.events) > 0 {
		s.WriteString("\n" + Separator(40) + "\n")
		for _, e := range m.events {
			s.WriteString(labelStyle().UnsetWidth().Render(e) + "\n")
		}
	}

	s.WriteString(keyHintStyle().Render("SP:Pause N:Step R:Reset +/-:Speed T:Theme Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle().Render(s.String()))
}

func (m Model) status() string {
	switch {
	case m.done:
		return "DONE"
	case m.running:
		return "RUNNING"
	default:
		return "PAUSED"
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	v := m.view

	for _, o := range m.cfg.Objects {
		if o.Rail == nil {
			continue
		}
		x0, y0 := v.Project(o.Rail.Start.Mgl())
		x1, y1 := v.Project(o.Rail.End.Mgl())
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	radii := make(map[string]float64, len(m.cfg.Objects))
	for _, o := range m.cfg.Objects {
		radii[o.ID] = o.Radius
	}
	for _, o := range m.frame.Objects {
		if !o.Alive {
			continue
		}
		x, y := v.Project(o.Position)
		r := max(v.Length(radii[o.ID]), 1)
		m.canvas.DrawCircle(x, y, r)
		if o.Highlighted {
			m.canvas.DrawCircle(x, y, r+2)
		}
	}

	for _, h := range m.frame.Hands {
		hx, hy := v.Project(h.Position)
		m.canvas.DrawCross(hx, hy, 2)
		if h.Phase == grab.Idle && h.Holding == "" {
			if ctrl, ok := m.scene.Controller(h.ID); ok {
				fwd := m.forward(h.ID)
				reach := min(ctrl.Config().MaxGrabDistance, pointerLength)
				tx, ty := v.Project(h.Position.Add(fwd.Mul(reach)))
				m.canvas.DrawLine(hx, hy, tx, ty)
			}
		}
		if h.Target != "" {
			if o, ok := m.frame.Object(h.Target); ok {
				ox, oy := v.Project(o.Position)
				m.canvas.DrawLine(hx, hy, ox, oy)
			}
		}
	}
}

// forward is the normalized ground-plane pointing direction of a hand.
func (m *Model) forward(hand string) mgl64.Vec3 {
	for _, hc := range m.cfg.Hands {
		if hc.ID != hand {
			continue
		}
		fwd := mgl64.Vec3{0, 0, 1}
		for _, k := range hc.Script {
			if k.T > m.frame.Time+1e-9 {
				break
			}
			if k.Forward != nil {
				fwd = k.Forward.Mgl()
			}
		}
		fwd[1] = 0
		if fwd.Len() == 0 {
			return mgl64.Vec3{0, 0, 1}
		}
		return fwd.Normalize()
	}
	return mgl64.Vec3{0, 0, 1}
}

func scenePoints(cfg *config.Config) []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, 0)
	for _, o := range cfg.Objects {
		pts = append(pts, o.Position.Mgl())
		if o.Rail != nil {
			pts = append(pts, o.Rail.Start.Mgl(), o.Rail.End.Mgl())
		}
	}
	for _, h := range cfg.Hands {
		for _, k := range h.Script {
			if k.Position != nil {
				pts = append(pts, k.Position.Mgl())
			}
		}
	}
	return pts
}

// Run starts the interactive player.
func Run(cfg *config.Config, log *zap.Logger) error {
	m, err := NewModel(cfg, log)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
