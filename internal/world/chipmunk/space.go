// Package chipmunk runs the launcher on the Chipmunk2D port in
// github.com/jakecoffman/cp.
package chipmunk

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/projectile/internal/world"
)

const (
	DefaultDt           = 1.0 / 60.0
	DefaultForceScale   = 1e6
	DefaultGravityScale = 1000.0

	staticElasticity = 1.0
	staticFriction   = 1.0
)

// Options converts the launcher's engine-neutral units into space units.
// ForceScale multiplies every applied force and GravityScale turns the
// gravity scalar into an acceleration in pixels per second squared.
type Options struct {
	Dt           float64
	ForceScale   float64
	GravityScale float64
}

func DefaultOptions() Options {
	return Options{
		Dt:           DefaultDt,
		ForceScale:   DefaultForceScale,
		GravityScale: DefaultGravityScale,
	}
}

type Space struct {
	space    *cp.Space
	opts     Options
	gravityY float64
	steps    int
}

var _ world.World = (*Space)(nil)

func New(opts Options) *Space {
	if opts.Dt <= 0 {
		opts.Dt = DefaultDt
	}
	if opts.ForceScale == 0 {
		opts.ForceScale = DefaultForceScale
	}
	if opts.GravityScale == 0 {
		opts.GravityScale = DefaultGravityScale
	}
	return &Space{space: cp.NewSpace(), opts: opts}
}

type dynamicBody struct {
	body  *cp.Body
	shape *cp.Shape
}

func (d *dynamicBody) Position() world.Vec { return fromCP(d.body.Position()) }
func (d *dynamicBody) Velocity() world.Vec { return fromCP(d.body.Velocity()) }

// staticRect hangs off the space's shared static body, so it keeps its own
// center for Position.
type staticRect struct {
	center world.Vec
	shape  *cp.Shape
}

func (r *staticRect) Position() world.Vec { return r.center }
func (r *staticRect) Velocity() world.Vec { return world.Vec{} }

func (s *Space) CreateStaticRectangle(cx, cy, w, h float64) world.Body {
	bb := cp.BB{L: cx - w/2, B: cy - h/2, R: cx + w/2, T: cy + h/2}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetElasticity(staticElasticity)
	shape.SetFriction(staticFriction)
	return &staticRect{center: world.Vec{X: cx, Y: cy}, shape: shape}
}

func (s *Space) CreateCircle(cx, cy, radius float64, opts world.BodyOptions) world.Body {
	mass := opts.Density * math.Pi * radius * radius
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: cx, Y: cy})

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetElasticity(opts.Restitution)
	shape.SetFriction(opts.Friction)
	return &dynamicBody{body: body, shape: shape}
}

func (s *Space) AddBodies(bodies ...world.Body) {
	for _, b := range bodies {
		switch b := b.(type) {
		case *dynamicBody:
			s.space.AddBody(b.body)
			s.space.AddShape(b.shape)
		case *staticRect:
			s.space.AddShape(b.shape)
		}
	}
}

// ApplyForce accumulates a force that the next Step integrates and clears.
// Static bodies ignore it.
func (s *Space) ApplyForce(b world.Body, at world.Vec, force world.Vec) {
	d, ok := b.(*dynamicBody)
	if !ok {
		return
	}
	d.body.ApplyForceAtWorldPoint(toCP(force.Scale(s.opts.ForceScale)), toCP(at))
}

func (s *Space) SetPosition(b world.Body, p world.Vec) {
	if d, ok := b.(*dynamicBody); ok {
		d.body.SetPosition(toCP(p))
	}
}

func (s *Space) SetVelocity(b world.Body, v world.Vec) {
	if d, ok := b.(*dynamicBody); ok {
		d.body.SetVelocity(v.X, v.Y)
	}
}

// SetGravityY stores the unscaled scalar; GravityY reports it back unchanged.
func (s *Space) SetGravityY(g float64) {
	s.gravityY = g
	s.space.SetGravity(cp.Vector{X: 0, Y: g * s.opts.GravityScale})
}

func (s *Space) GravityY() float64 { return s.gravityY }

func (s *Space) Step() {
	s.space.Step(s.opts.Dt)
	s.steps++
}

// Steps reports how many times Step has run.
func (s *Space) Steps() int { return s.steps }

func (s *Space) Dt() float64 { return s.opts.Dt }

func toCP(v world.Vec) cp.Vector   { return cp.Vector{X: v.X, Y: v.Y} }
func fromCP(v cp.Vector) world.Vec { return world.Vec{X: v.X, Y: v.Y} }
