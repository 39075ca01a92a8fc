// Package optim searches launch settings for the best value of a metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/sim"
)

var (
	ErrUnknownMetric = errors.New("optim: metric not reported by session")
	ErrEmptyGrid     = errors.New("optim: empty parameter grid")
)

// Build returns a fresh session configured with params. It must register
// the metric being searched.
type Build func(params map[string]float64) (*sim.Session, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	steps      int
	script     []config.ScriptEntry
}

func NewGridSearch(params []string, ranges [][]float64, steps int, script []config.ScriptEntry) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, steps: steps, script: script}
}

// Maximize runs every combination in the grid and returns the one with the
// highest metric value. Ties keep the first combination in grid order.
func (g *GridSearch) Maximize(ctx context.Context, build Build, metricName string) (map[string]float64, float64, error) {
	return g.search(ctx, build, metricName, func(v, best float64) bool { return v > best }, math.Inf(-1))
}

func (g *GridSearch) Minimize(ctx context.Context, build Build, metricName string) (map[string]float64, float64, error) {
	return g.search(ctx, build, metricName, func(v, best float64) bool { return v < best }, math.Inf(1))
}

func (g *GridSearch) search(ctx context.Context, build Build, metricName string, better func(v, best float64) bool, start float64) (map[string]float64, float64, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, 0, ErrEmptyGrid
	}
	for _, r := range g.ranges {
		if len(r) == 0 {
			return nil, 0, ErrEmptyGrid
		}
	}

	best := start
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, better, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Build,
	metricName string,
	better func(v, best float64) bool,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		s, err := build(current)
		if err != nil {
			return err
		}

		result, err := s.Run(ctx, g.steps, g.script)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownMetric, metricName)
		}
		if *bestParams == nil || better(val, *best) {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, better, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Range expands from..to in steps of by, inclusive of to within rounding.
func Range(from, to, by float64) ([]float64, error) {
	if by <= 0 || from > to {
		return nil, fmt.Errorf("invalid range: from %v to %v by %v", from, to, by)
	}
	var out []float64
	for i := 0; ; i++ {
		v := from + float64(i)*by
		if v > to+by*1e-9 {
			break
		}
		out = append(out, v)
	}
	return out, nil
}
