// Package tick holds the rule run after every physics step: push the
// projectile with the wind while it is above the floor line and put it back
// on the launch spot once it leaves the viewport.
package tick

import "github.com/san-kum/projectile/internal/world"

// WindScale converts the wind setting into an engine force.
const WindScale = 0.001

const (
	originX       = 200.0
	originYOffset = 200.0
)

// Bounds is the viewport rectangle (0,0)-(Width,Height).
type Bounds struct {
	Width, Height float64
}

// Outside reports whether p has left the viewport. The edges themselves
// are still inside.
func (b Bounds) Outside(p world.Vec) bool {
	return p.Y > b.Height || p.X > b.Width || p.X < 0
}

// Origin is the fixed launch spot, (200, Height-200).
func (b Bounds) Origin() world.Vec {
	return world.Vec{X: originX, Y: b.Height - originYOffset}
}

// WindSource reports the current wind setting.
type WindSource interface {
	Wind() float64
}

// Outcome describes what one Tick did.
type Outcome struct {
	WindApplied bool
	Wind        world.Vec
	Reset       bool
}

type Policy struct {
	wind       WindSource
	world      world.World
	projectile world.Body
	bounds     Bounds
}

func New(wind WindSource, w world.World, projectile world.Body, bounds Bounds) *Policy {
	return &Policy{wind: wind, world: w, projectile: projectile, bounds: bounds}
}

func (p *Policy) Bounds() Bounds { return p.bounds }

// Tick runs both checks against the projectile's current position. The
// checks are independent: a projectile above the floor but past a side
// edge gets the wind push and is then reset.
func (p *Policy) Tick() Outcome {
	var out Outcome

	pos := p.projectile.Position()
	if pos.Y < p.bounds.Height {
		out.Wind = world.Vec{X: p.wind.Wind() * WindScale}
		p.world.ApplyForce(p.projectile, pos, out.Wind)
		out.WindApplied = true
	}

	if p.bounds.Outside(pos) {
		p.Reset()
		out.Reset = true
	}

	return out
}

// Reset moves the projectile to the origin and stops it.
func (p *Policy) Reset() {
	p.world.SetPosition(p.projectile, p.bounds.Origin())
	p.world.SetVelocity(p.projectile, world.Vec{})
}
