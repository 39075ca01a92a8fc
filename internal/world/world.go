// Package world describes the rigid-body engine the launcher runs against.
//
// Coordinates are screen coordinates: X grows to the right and Y grows
// downward, so an upward push has a negative Y component.
package world

type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec) Scale(f float64) Vec { return Vec{X: v.X * f, Y: v.Y * f} }
func (v Vec) IsZero() bool        { return v.X == 0 && v.Y == 0 }

// Body is a handle to an engine-owned rigid body.
type Body interface {
	Position() Vec
	Velocity() Vec
}

type BodyOptions struct {
	Restitution float64
	Density     float64
	Friction    float64
}

// World is the capability set the launcher consumes. Step advances the
// simulation by one fixed tick; callers run their own post-step logic after it
// returns.
type World interface {
	CreateStaticRectangle(cx, cy, w, h float64) Body
	CreateCircle(cx, cy, radius float64, opts BodyOptions) Body
	AddBodies(bodies ...Body)
	ApplyForce(b Body, at Vec, force Vec)
	SetPosition(b Body, p Vec)
	SetVelocity(b Body, v Vec)
	SetGravityY(g float64)
	GravityY() float64
	Step()
}
