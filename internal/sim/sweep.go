package sim

import (
	"context"
	"sync"

	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/world"
)

// Sweep runs one session per config in parallel. newWorld must return a
// fresh world for every call and newMetrics a fresh metric set. Results are
// returned in config order; the first error wins.
func Sweep(ctx context.Context, cfgs []*config.Config, newWorld func(*config.Config) world.World, newMetrics func() []Metric) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(idx int, cfg *config.Config) {
			defer wg.Done()

			s, err := New(newWorld(cfg), cfg)
			if err != nil {
				errs[idx] = err
				return
			}
			if newMetrics != nil {
				for _, m := range newMetrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg.Steps, cfg.Script)
		}(i, cfg)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
