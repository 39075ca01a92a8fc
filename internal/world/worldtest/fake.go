// Package worldtest provides a recording world for tests.
package worldtest

import "github.com/san-kum/projectile/internal/world"

type Op string

const (
	OpApplyForce  Op = "apply_force"
	OpSetPosition Op = "set_position"
	OpSetVelocity Op = "set_velocity"
	OpSetGravity  Op = "set_gravity"
	OpStep        Op = "step"
)

// Call records one mutation made against the fake.
type Call struct {
	Op    Op
	Body  *Body
	At    world.Vec
	Value world.Vec
}

// Body is a plain mutable body; tests may set Pos and Vel directly.
type Body struct {
	Pos, Vel world.Vec
	Static   bool
	Radius   float64
	Options  world.BodyOptions
	Force    world.Vec
	Size     world.Vec
	Added    bool
}

func (b *Body) Position() world.Vec { return b.Pos }
func (b *Body) Velocity() world.Vec { return b.Vel }

// World never integrates anything on Step unless OnStep is set; it only
// records what the caller asked for.
type World struct {
	Bodies  []*Body
	Calls   []Call
	Gravity float64
	OnStep  func(w *World)
}

var _ world.World = (*World)(nil)

func New() *World { return &World{} }

func (w *World) CreateStaticRectangle(cx, cy, width, height float64) world.Body {
	b := &Body{Pos: world.Vec{X: cx, Y: cy}, Static: true, Size: world.Vec{X: width, Y: height}}
	w.Bodies = append(w.Bodies, b)
	return b
}

func (w *World) CreateCircle(cx, cy, radius float64, opts world.BodyOptions) world.Body {
	b := &Body{Pos: world.Vec{X: cx, Y: cy}, Radius: radius, Options: opts}
	w.Bodies = append(w.Bodies, b)
	return b
}

func (w *World) AddBodies(bodies ...world.Body) {
	for _, b := range bodies {
		b.(*Body).Added = true
	}
}

func (w *World) ApplyForce(b world.Body, at world.Vec, force world.Vec) {
	body := b.(*Body)
	body.Force = body.Force.Add(force)
	w.Calls = append(w.Calls, Call{Op: OpApplyForce, Body: body, At: at, Value: force})
}

func (w *World) SetPosition(b world.Body, p world.Vec) {
	body := b.(*Body)
	body.Pos = p
	w.Calls = append(w.Calls, Call{Op: OpSetPosition, Body: body, Value: p})
}

func (w *World) SetVelocity(b world.Body, v world.Vec) {
	body := b.(*Body)
	body.Vel = v
	w.Calls = append(w.Calls, Call{Op: OpSetVelocity, Body: body, Value: v})
}

func (w *World) SetGravityY(g float64) {
	w.Gravity = g
	w.Calls = append(w.Calls, Call{Op: OpSetGravity, Value: world.Vec{Y: g}})
}

func (w *World) GravityY() float64 { return w.Gravity }

// Step records the call, runs OnStep and then clears accumulated forces.
func (w *World) Step() {
	w.Calls = append(w.Calls, Call{Op: OpStep})
	if w.OnStep != nil {
		w.OnStep(w)
	}
	for _, b := range w.Bodies {
		b.Force = world.Vec{}
	}
}

// Forces returns the forces applied to b, in order.
func (w *World) Forces(b world.Body) []world.Vec {
	var out []world.Vec
	for _, c := range w.Calls {
		if c.Op == OpApplyForce && c.Body == b {
			out = append(out, c.Value)
		}
	}
	return out
}

// Ops returns the recorded operation sequence.
func (w *World) Ops() []Op {
	ops := make([]Op, len(w.Calls))
	for i, c := range w.Calls {
		ops[i] = c.Op
	}
	return ops
}

func (w *World) Reset() { w.Calls = nil }
