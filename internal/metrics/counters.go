package metrics

import "github.com/san-kum/projectile/internal/sim"

// Counter counts frames, or per-frame quantities, selected by fn.
type Counter struct {
	name  string
	fn    func(sim.Frame) int
	count int
}

func NewCounter(name string, fn func(sim.Frame) int) *Counter {
	return &Counter{name: name, fn: fn}
}

func (c *Counter) Name() string        { return c.name }
func (c *Counter) Observe(f sim.Frame) { c.count += c.fn(f) }
func (c *Counter) Value() float64      { return float64(c.count) }
func (c *Counter) Reset()              { c.count = 0 }

func NewResets() *Counter {
	return NewCounter("resets", func(f sim.Frame) int { return boolInt(f.Reset) })
}

func NewLaunches() *Counter {
	return NewCounter("launches", func(f sim.Frame) int { return f.Launches })
}

func NewWindTicks() *Counter {
	return NewCounter("wind_ticks", func(f sim.Frame) int { return boolInt(f.WindApplied) })
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
