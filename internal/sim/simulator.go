package sim

import (
	"context"
	"fmt"
)

type Simulator struct {
	scene     *Scene
	metrics   []Metric
	observers []Observer
}

func New(scene *Scene) *Simulator {
	return &Simulator{
		scene:     scene,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) Scene() *Scene          { return s.scene }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps the scene for cfg.Duration. Frame 0 is the state before the first
// tick. A cancelled context returns the partial result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Scene:   s.scene.Name(),
		Frames:  make([]Frame, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.record(result, s.scene.Snapshot(0, 0))
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}
		s.record(result, s.scene.Step(i, float64(i)*cfg.Dt, cfg.Dt))
		result.StepsTaken++
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback steps the scene until the duration elapses or callback
// returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		f := s.scene.Step(i, float64(i)*cfg.Dt, cfg.Dt)
		for _, obs := range s.observers {
			obs.OnFrame(&f)
		}
		if !callback(&f) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) record(result *Result, f Frame) {
	for _, m := range s.metrics {
		m.Observe(&f)
	}
	for _, obs := range s.observers {
		obs.OnFrame(&f)
	}
	result.Events = append(result.Events, f.Events...)
	result.Frames = append(result.Frames, f)
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
