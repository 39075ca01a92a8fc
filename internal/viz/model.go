package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/params"
	"github.com/san-kum/projectile/internal/sim"
	"github.com/san-kum/projectile/internal/world"
)

const (
	width         = 80
	height        = 24
	trailCapacity = 400
	aimLength     = 60.0

	angleStep = 1.0
	forceStep = 0.005
	windStep  = 1.0
)

type TickMsg time.Time

// ReloadMsg moves the running session to a new parameter block.
type ReloadMsg struct {
	Params config.Params
}

// ReloadErrMsg reports a config reload that failed to load or validate.
type ReloadErrMsg struct {
	Err error
}

type Model struct {
	session  *sim.Session
	fps      int
	radius   float64
	canvas   *Canvas
	view     Viewport
	trail    []world.Vec
	labels   map[params.Field]string
	selected int
	editing  bool
	input    string
	status   string
	failed   bool
	running  bool
	theme    int
	styles   styles
	last     sim.Frame
	logger   *slog.Logger
}

// NewModel wraps s, which must have been built from cfg. The panel labels
// follow the session's parameter store from here on.
func NewModel(s *sim.Session, cfg *config.Config, logger *slog.Logger) Model {
	fps := cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	canvas := NewCanvas(width, height)
	b := s.Bounds()

	labels := make(map[params.Field]string, len(params.Fields))
	store := s.Params()
	for _, f := range params.Fields {
		labels[f] = store.Label(f)
	}
	store.OnChange(func(f params.Field, text string) { labels[f] = text })

	return Model{
		session: s,
		fps:     fps,
		radius:  cfg.Projectile.Radius,
		canvas:  canvas,
		view:    NewViewport(b.Width, b.Height, canvas),
		trail:   make([]world.Vec, 0, trailCapacity),
		labels:  labels,
		running: true,
		styles:  newStyles(Themes[0]),
		logger:  logger,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateEdit(msg)
		}
		return m.updateKeys(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	case ReloadMsg:
		n := m.session.SyncParams(msg.Params)
		m.flush(fmt.Sprintf("config reloaded, %d field(s) changed", n))
		m.logger.Info("config reloaded", "changed", n)
	case ReloadErrMsg:
		m.setStatus(msg.Err.Error(), true)
		m.logger.Warn("config reload failed", "err", msg.Err)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := m.session.Params()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left":
		m.submit(params.AngleInput{Raw: formatStep(store.Angle() - angleStep)})
	case "right":
		m.submit(params.AngleInput{Raw: formatStep(store.Angle() + angleStep)})
	case "up":
		m.submit(params.ForceInput{Raw: formatStep(store.Force() + forceStep)})
	case "down":
		m.submit(params.ForceInput{Raw: formatStep(math.Max(store.Force()-forceStep, 0))})
	case ",":
		m.submit(params.WindInput{Raw: formatStep(store.Wind() - windStep)})
	case ".":
		m.submit(params.WindInput{Raw: formatStep(store.Wind() + windStep)})
	case "g":
		m.submit(params.GravityInput{Name: store.Gravity().Next().String()})
	case " ":
		m.submit(sim.Launch{})
	case "tab":
		m.selected = (m.selected + 1) % len(params.Fields)
	case "e":
		m.editing = true
		m.input = m.labels[params.Fields[m.selected]]
	case "p":
		m.running = !m.running
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.editing = false
		m.input = ""
	case tea.KeyEnter:
		cmd, err := sim.ParseCommand(string(params.Fields[m.selected]), m.input)
		m.editing = false
		m.input = ""
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.submit(cmd)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// submit applies input right away; the live view has no reason to hold it
// until the next frame.
func (m *Model) submit(msg sim.Msg) {
	if err := m.session.Submit(msg); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	text := ""
	if _, ok := msg.(sim.Launch); ok {
		text = fmt.Sprintf("launch #%d", m.session.Launches()+1)
	}
	m.flush(text)
}

func (m *Model) flush(ok string) {
	if err := m.session.Flush(); err != nil {
		m.setStatus(err.Error(), true)
		m.logger.Warn("input rejected", "err", err)
		return
	}
	m.setStatus(ok, false)
}

func (m *Model) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

func (m *Model) step() {
	f, err := m.session.Step()
	if err != nil {
		m.setStatus(err.Error(), true)
	}
	m.last = f

	m.trail = append(m.trail, f.Position)
	if f.Reset {
		m.trail = m.trail[:0]
	}
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()

	b := m.session.Bounds()
	px, py := m.view.PixelsX-1, m.view.PixelsY-1

	// ground slab and walls, clipped to the viewport
	_, groundTop := m.view.Project(world.Vec{Y: sim.GroundTop(b)})
	c.DrawRect(0, groundTop, px, py)
	wall := m.view.Length(sim.WallThickness / 2)
	c.DrawRect(0, 0, wall, groundTop)
	c.DrawRect(px-wall, 0, px, groundTop)

	for i := 1; i < len(m.trail); i++ {
		x0, y0 := m.view.Project(m.trail[i-1])
		x1, y1 := m.view.Project(m.trail[i])
		c.DrawLine(x0, y0, x1, y1)
	}

	store := m.session.Params()
	pos := m.session.Projectile().Position()
	bx, by := m.view.Project(pos)
	c.DrawCircle(bx, by, m.view.Length(m.radius))

	dir := launch.ForceVector(store.Angle(), 1).Scale(aimLength)
	ax, ay := m.view.Project(pos.Add(dir))
	c.DrawLine(bx, by, ax, ay)
}

func (m Model) View() string {
	m.draw()
	canvasView := m.styles.canvas.Render(m.styles.scene.Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(m.styles.header.Render("PROJECTILE") + "\n")
	if m.running {
		s.WriteString(m.styles.running.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(m.styles.paused.Render("PAUSED") + "\n\n")
	}

	for i, f := range params.Fields {
		text := m.labels[f]
		if i == m.selected && m.editing {
			text = m.input + "_"
		}
		line := m.styles.label.Render(string(f)) + m.styles.value.Render(text)
		if i == m.selected {
			s.WriteString(m.styles.active.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(m.styles.label.Render("time") + m.styles.value.Render(fmt.Sprintf("%.2fs", m.last.Time)) + "\n")
	s.WriteString(m.styles.label.Render("position") + m.styles.value.Render(fmt.Sprintf("%.0f, %.0f", m.last.Position.X, m.last.Position.Y)) + "\n")
	s.WriteString(m.styles.label.Render("launches") + m.styles.value.Render(strconv.Itoa(m.session.Launches())) + "\n")

	if m.status != "" {
		style := m.styles.okLine
		if m.failed {
			style = m.styles.errLine
		}
		s.WriteString("\n" + style.Render(m.status) + "\n")
	}

	s.WriteString(m.styles.keyHint.Render("←→ angle  ↑↓ force  ,. wind\ng gravity  space launch\ntab select  e edit  p pause\nt theme  q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))
}

// formatStep rounds away the binary noise that repeated key steps leave
// behind, so the label reads 0.055 rather than 0.055000000000000007.
func formatStep(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
