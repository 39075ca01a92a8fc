package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/projectile/internal/world"
)

var (
	// ErrUnknownCommand is returned for messages or script commands the
	// session does not understand.
	ErrUnknownCommand = errors.New("sim: unknown command")

	// ErrInvalidSteps is returned by Run for a non-positive step count.
	ErrInvalidSteps = errors.New("sim: step count must be positive")
)

// Msg is a UI event. Valid messages are params.Command values and Launch.
type Msg interface{}

// Launch is the launch button.
type Launch struct{}

// Frame is the projectile state seen by the tick policy after one physics
// step, before any reset it triggered.
type Frame struct {
	Step        int
	Time        float64
	Position    world.Vec
	Velocity    world.Vec
	Wind        world.Vec
	WindApplied bool
	Reset       bool
	Launches    int
	Impulse     world.Vec
}

type Observer interface {
	OnStep(f Frame)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
}

// InputError ties a rejected input to the step that consumed it.
type InputError struct {
	Step int
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
