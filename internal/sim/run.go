package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/projectile/internal/config"
)

type scheduled struct {
	step int
	msg  Msg
}

// Run steps the session steps times. Script entries are submitted right
// before the step whose zero-based index matches Entry.Step; entries past
// the last step are ignored. Rejected inputs are collected in
// Result.Errors and do not stop the run.
func (s *Session) Run(ctx context.Context, steps int, script []config.ScriptEntry) (*Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSteps, steps)
	}

	queue, err := compileScript(script)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	next := 0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		for next < len(queue) && queue[next].step <= i {
			// compileScript only produces messages Submit accepts
			_ = s.Submit(queue[next].msg)
			next++
		}

		f, err := s.Step()
		if err != nil {
			result.Errors = append(result.Errors, &InputError{Step: f.Step, Err: err})
		}

		result.Frames = append(result.Frames, f)
		result.StepsTaken++
	}

	s.collect(result)
	return result, nil
}

func (s *Session) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// compileScript parses every entry up front and orders them by step,
// keeping file order within a step.
func compileScript(script []config.ScriptEntry) ([]scheduled, error) {
	queue := make([]scheduled, 0, len(script))
	for i, e := range script {
		msg, err := ParseCommand(e.Command, e.Value)
		if err != nil {
			return nil, fmt.Errorf("script[%d]: %w", i, err)
		}
		queue = append(queue, scheduled{step: e.Step, msg: msg})
	}
	sort.SliceStable(queue, func(a, b int) bool { return queue[a].step < queue[b].step })
	return queue, nil
}
