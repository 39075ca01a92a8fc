package tick

import (
	"math"
	"testing"

	"github.com/san-kum/projectile/internal/world"
	"github.com/san-kum/projectile/internal/world/worldtest"
)

type windSetting float64

func (w windSetting) Wind() float64 { return float64(w) }

func setup(wind float64, pos world.Vec) (*Policy, *worldtest.World, *worldtest.Body) {
	w := worldtest.New()
	ball := w.CreateCircle(pos.X, pos.Y, 20, world.BodyOptions{}).(*worldtest.Body)
	ball.Vel = world.Vec{X: 3, Y: -4}
	p := New(windSetting(wind), w, ball, Bounds{Width: 800, Height: 600})
	return p, w, ball
}

func TestWindScenario(t *testing.T) {
	p, w, ball := setup(10, world.Vec{X: 300, Y: 100})

	out := p.Tick()

	if !out.WindApplied {
		t.Fatal("expected wind to be applied")
	}
	forces := w.Forces(ball)
	if len(forces) != 1 {
		t.Fatalf("expected 1 force, got %d", len(forces))
	}
	if math.Abs(forces[0].X-0.01) > 1e-12 || forces[0].Y != 0 {
		t.Errorf("wind force = %+v, want (0.01, 0)", forces[0])
	}
	if out.Reset {
		t.Error("unexpected reset")
	}
}

func TestWindSkippedAtOrBelowFloor(t *testing.T) {
	for _, y := range []float64{600, 650} {
		p, w, ball := setup(10, world.Vec{X: 300, Y: y})
		out := p.Tick()
		if out.WindApplied {
			t.Errorf("y=%v: wind should not apply", y)
		}
		if n := len(w.Forces(ball)); n != 0 {
			t.Errorf("y=%v: expected no forces, got %d", y, n)
		}
	}
}

func TestZeroWindStillPushes(t *testing.T) {
	p, w, ball := setup(0, world.Vec{X: 300, Y: 100})
	out := p.Tick()
	if !out.WindApplied || len(w.Forces(ball)) != 1 {
		t.Error("zero wind is still applied as a zero force")
	}
}

func TestResetBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		pos   world.Vec
		reset bool
	}{
		{"inside", world.Vec{X: 400, Y: 300}, false},
		{"on floor", world.Vec{X: 400, Y: 600}, false},
		{"on left edge", world.Vec{X: 0, Y: 300}, false},
		{"on right edge", world.Vec{X: 800, Y: 300}, false},
		{"above top", world.Vec{X: 400, Y: -500}, false},
		{"below floor", world.Vec{X: 400, Y: 600.001}, true},
		{"past right", world.Vec{X: 850, Y: 300}, true},
		{"past left", world.Vec{X: -0.5, Y: 300}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, ball := setup(0, tt.pos)
			out := p.Tick()
			if out.Reset != tt.reset {
				t.Fatalf("Reset = %v, want %v", out.Reset, tt.reset)
			}
			if tt.reset {
				if ball.Pos != (world.Vec{X: 200, Y: 400}) {
					t.Errorf("position = %+v, want (200, 400)", ball.Pos)
				}
				if ball.Vel != (world.Vec{}) {
					t.Errorf("velocity = %+v, want zero", ball.Vel)
				}
			} else if ball.Pos != tt.pos {
				t.Errorf("position moved to %+v", ball.Pos)
			}
		})
	}
}

func TestResetScenario(t *testing.T) {
	p, w, ball := setup(5, world.Vec{X: 850, Y: 300})

	out := p.Tick()

	// still above the floor, so wind applies before the reset
	if !out.WindApplied || !out.Reset {
		t.Fatalf("outcome = %+v, want wind and reset", out)
	}
	ops := w.Ops()
	want := []worldtest.Op{worldtest.OpApplyForce, worldtest.OpSetPosition, worldtest.OpSetVelocity}
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("ops[%d] = %s, want %s", i, ops[i], want[i])
		}
	}
	if ball.Pos != (world.Vec{X: 200, Y: 400}) || ball.Vel != (world.Vec{}) {
		t.Errorf("after reset pos=%+v vel=%+v", ball.Pos, ball.Vel)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	p, _, ball := setup(0, world.Vec{X: 900, Y: 900})
	p.Tick()
	first := *ball

	p.Reset()
	p.Reset()
	if ball.Pos != first.Pos || ball.Vel != first.Vel {
		t.Errorf("repeated reset changed state: %+v vs %+v", ball, first)
	}

	out := p.Tick()
	if out.Reset {
		t.Error("projectile at origin should not reset again")
	}
}

func TestOrigin(t *testing.T) {
	b := Bounds{Width: 1024, Height: 768}
	if o := b.Origin(); o != (world.Vec{X: 200, Y: 568}) {
		t.Errorf("Origin() = %+v", o)
	}
}
