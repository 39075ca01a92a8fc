// Package launch turns the current launch settings into a push on the
// projectile.
package launch

import (
	"math"

	"github.com/san-kum/projectile/internal/world"
)

// Settings is the read side of the parameter store.
type Settings interface {
	Angle() float64
	Force() float64
}

// ForceVector returns (F·cos θ, −F·sin θ) for an angle in degrees. Y is
// negated because screen Y grows downward.
func ForceVector(angleDeg, force float64) world.Vec {
	theta := angleDeg * math.Pi / 180
	return world.Vec{
		X: force * math.Cos(theta),
		Y: -force * math.Sin(theta),
	}
}

type Controller struct {
	settings   Settings
	world      world.World
	projectile world.Body
	launches   int
}

func New(settings Settings, w world.World, projectile world.Body) *Controller {
	return &Controller{settings: settings, world: w, projectile: projectile}
}

// Launch applies the force vector at the projectile's current position and
// returns it. Every call adds another push; nothing is overwritten.
func (c *Controller) Launch() world.Vec {
	f := ForceVector(c.settings.Angle(), c.settings.Force())
	c.world.ApplyForce(c.projectile, c.projectile.Position(), f)
	c.launches++
	return f
}

func (c *Controller) Launches() int { return c.launches }
