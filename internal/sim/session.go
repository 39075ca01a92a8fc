package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/params"
	"github.com/san-kum/projectile/internal/tick"
	"github.com/san-kum/projectile/internal/world"
)

const (
	groundInset = 50.0

	// WallThickness is the height of the ground slab and the width of both
	// side walls.
	WallThickness = 60.0
)

type Session struct {
	params     *params.Store
	world      world.World
	projectile world.Body
	launcher   *launch.Controller
	policy     *tick.Policy
	pending    []Msg
	observers  []Observer
	metrics    []Metric
	steps      int
	dt         float64
	logger     *slog.Logger
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New lays out the sandbox in w: a ground slab, two side walls and the
// projectile resting on the launch origin. The initial parameters from cfg
// are applied before New returns.
func New(w world.World, cfg *config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	width, height := cfg.World.Width, cfg.World.Height
	bounds := BoundsOf(cfg)
	origin := bounds.Origin()

	ground := w.CreateStaticRectangle(width/2, height-groundInset, width, WallThickness)
	left := w.CreateStaticRectangle(0, height/2, WallThickness, height)
	right := w.CreateStaticRectangle(width, height/2, WallThickness, height)
	ball := w.CreateCircle(origin.X, origin.Y, cfg.Projectile.Radius, world.BodyOptions{
		Restitution: cfg.Projectile.Restitution,
		Density:     cfg.Projectile.Density,
		Friction:    cfg.Projectile.Friction,
	})
	w.AddBodies(ground, left, right, ball)

	store := params.NewStore(cfg.Initial(), w)

	s := &Session{
		params:     store,
		world:      w,
		projectile: ball,
		launcher:   launch.New(store, w, ball),
		policy:     tick.New(store, w, ball, bounds),
		dt:         cfg.Engine.Dt,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BoundsOf returns the viewport a session built from cfg would use.
func BoundsOf(cfg *config.Config) tick.Bounds {
	return tick.Bounds{Width: cfg.World.Width, Height: cfg.World.Height}
}

// GroundTop is the Y of the ground slab's upper face.
func GroundTop(b tick.Bounds) float64 {
	return b.Height - groundInset - WallThickness/2
}

func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Session) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }

func (s *Session) Params() *params.Store  { return s.params }
func (s *Session) World() world.World     { return s.world }
func (s *Session) Projectile() world.Body { return s.projectile }
func (s *Session) Bounds() tick.Bounds    { return s.policy.Bounds() }
func (s *Session) Steps() int             { return s.steps }
func (s *Session) Pending() int           { return len(s.pending) }
func (s *Session) Launches() int          { return s.launcher.Launches() }

// Submit queues msg for the next Step or Flush.
func (s *Session) Submit(msg Msg) error {
	switch msg.(type) {
	case params.Command, Launch:
		s.pending = append(s.pending, msg)
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnknownCommand, msg)
}

// Flush applies every queued message without stepping the world. Rejected
// inputs are joined into the returned error; the rest still apply.
func (s *Session) Flush() error {
	_, _, err := s.drain()
	return err
}

func (s *Session) drain() (launches int, impulse world.Vec, err error) {
	var errs []error
	for _, msg := range s.pending {
		switch m := msg.(type) {
		case params.Command:
			if err := s.params.Apply(m); err != nil {
				s.logger.Warn("input rejected", "field", m.Field(), "err", err)
				errs = append(errs, err)
				continue
			}
			s.logger.Debug("input applied", "field", m.Field(), "value", s.params.Label(m.Field()))
		case Launch:
			f := s.launcher.Launch()
			impulse = impulse.Add(f)
			launches++
			s.logger.Debug("launch", "fx", f.X, "fy", f.Y)
		}
	}
	s.pending = s.pending[:0]
	return launches, impulse, errors.Join(errs...)
}

// Step applies pending input, advances the world one tick and runs the tick
// policy. The step happens even when some input was rejected; the rejected
// inputs come back as the error.
func (s *Session) Step() (Frame, error) {
	launches, impulse, err := s.drain()

	s.world.Step()
	pos := s.projectile.Position()
	vel := s.projectile.Velocity()
	out := s.policy.Tick()
	s.steps++

	if out.Reset {
		s.logger.Debug("projectile reset", "step", s.steps, "x", pos.X, "y", pos.Y)
	}

	f := Frame{
		Step:        s.steps,
		Time:        float64(s.steps) * s.dt,
		Position:    pos,
		Velocity:    vel,
		Wind:        out.Wind,
		WindApplied: out.WindApplied,
		Reset:       out.Reset,
		Launches:    launches,
		Impulse:     impulse,
	}
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnStep(f)
	}
	return f, err
}

// ParseCommand turns a script or CLI command name and its raw value into a
// message.
func ParseCommand(name, value string) (Msg, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "angle":
		return params.AngleInput{Raw: value}, nil
	case "force":
		return params.ForceInput{Raw: value}, nil
	case "wind":
		return params.WindInput{Raw: value}, nil
	case "gravity":
		return params.GravityInput{Name: value}, nil
	case "launch":
		return Launch{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// CommandsFor returns the inputs that move a store to p, one per field.
func CommandsFor(p config.Params) []params.Command {
	return []params.Command{
		params.AngleInput{Raw: formatFloat(p.Angle)},
		params.ForceInput{Raw: formatFloat(p.Force)},
		params.WindInput{Raw: formatFloat(p.Wind)},
		params.GravityInput{Name: p.Gravity},
	}
}

// SyncParams queues inputs only for the fields of p that differ from the
// current settings and returns how many were queued.
func (s *Session) SyncParams(p config.Params) int {
	cur := s.params.Snapshot()
	n := 0
	for _, cmd := range CommandsFor(p) {
		changed := false
		switch c := cmd.(type) {
		case params.AngleInput:
			changed = math.Trunc(p.Angle) != cur.AngleDegrees
		case params.ForceInput:
			changed = p.Force != cur.Force
		case params.WindInput:
			changed = p.Wind != cur.Wind
		case params.GravityInput:
			g, ok := params.ParseGravity(c.Name)
			changed = ok && g != cur.Gravity
		}
		if changed {
			s.pending = append(s.pending, cmd)
			n++
		}
	}
	return n
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
