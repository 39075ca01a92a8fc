package metrics

import (
	"github.com/san-kum/projectile/internal/sim"
	"github.com/san-kum/projectile/internal/world"
)

// Defaults is the metric set reported after every headless run.
func Defaults(origin world.Vec) []sim.Metric {
	return []sim.Metric{
		NewApex(origin),
		NewRange(origin),
		NewResets(),
		NewLaunches(),
		NewWindTicks(),
	}
}
