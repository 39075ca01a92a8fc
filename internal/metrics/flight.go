package metrics

import (
	"math"

	"github.com/san-kum/projectile/internal/sim"
	"github.com/san-kum/projectile/internal/world"
)

// Apex is the greatest height reached above the launch origin.
type Apex struct {
	name    string
	originY float64
	best    float64
}

func NewApex(origin world.Vec) *Apex {
	return &Apex{name: "apex", originY: origin.Y}
}

func (a *Apex) Name() string { return a.name }

func (a *Apex) Observe(f sim.Frame) {
	// screen Y grows downward
	a.best = math.Max(a.best, a.originY-f.Position.Y)
}

func (a *Apex) Value() float64 { return a.best }
func (a *Apex) Reset()         { a.best = 0 }

// Range is the greatest horizontal distance from the launch origin.
type Range struct {
	name    string
	originX float64
	best    float64
}

func NewRange(origin world.Vec) *Range {
	return &Range{name: "range", originX: origin.X}
}

func (r *Range) Name() string { return r.name }

func (r *Range) Observe(f sim.Frame) {
	r.best = math.Max(r.best, math.Abs(f.Position.X-r.originX))
}

func (r *Range) Value() float64 { return r.best }
func (r *Range) Reset()         { r.best = 0 }
