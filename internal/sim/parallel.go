package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/distgrab/internal/config"
)

// MetricFactory returns a fresh metric set for each run of a batch.
type MetricFactory func() []Metric

// RunScene builds cfg into a scene and runs it to completion.
func RunScene(ctx context.Context, cfg *config.Config, metrics MetricFactory, log *zap.Logger) (*Result, error) {
	scene, err := Build(cfg, log)
	if err != nil {
		return nil, err
	}
	s := New(scene)
	if metrics != nil {
		for _, m := range metrics() {
			s.AddMetric(m)
		}
	}
	return s.Run(ctx, Config{Dt: cfg.Dt, Duration: cfg.Duration})
}

// RunBatch runs every scene concurrently, at most limit at a time. Results
// keep the order of cfgs. The first failure cancels the remaining runs.
func RunBatch(ctx context.Context, cfgs []*config.Config, limit int, metrics MetricFactory, log *zap.Logger) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, cfg := range cfgs {
		g.Go(func() error {
			res, err := RunScene(ctx, cfg, metrics, log)
			if err != nil {
				return fmt.Errorf("scene %q: %w", cfg.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
