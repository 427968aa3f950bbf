package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/distgrab/internal/config"
	"github.com/san-kum/distgrab/internal/sim"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

// Params names the hand and rail settings a search can vary. Hand settings
// apply to every hand, dampen_rate to every rail.
var Params = []string{
	"pull_speed",
	"max_grab_distance",
	"search_sphere_radius",
	"stop_lerp_distance",
	"dampen_rate",
}

type Trial struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	limit      int
	log        *zap.Logger
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, p := range params {
		if !known(p) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, p)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, log: zap.NewNop()}, nil
}

// WithLimit caps concurrent runs. Zero means no cap.
func (g *GridSearch) WithLimit(n int) *GridSearch {
	g.limit = n
	return g
}

func (g *GridSearch) WithLogger(log *zap.Logger) *GridSearch {
	if log != nil {
		g.log = log
	}
	return g
}

// Points enumerates the grid in row-major order.
func (g *GridSearch) Points() []map[string]float64 {
	points := make([]map[string]float64, 0)
	g.enumerate(0, make(map[string]float64), &points)
	return points
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		*out = append(*out, p)
		return
	}
	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.enumerate(depth+1, current, out)
	}
	delete(current, g.paramNames[depth])
}

// Search runs base once per grid point and returns the trial with the
// lowest value of metricName, along with every trial sorted best first.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metrics sim.MetricFactory, metricName string) (Trial, []Trial, error) {
	points := g.Points()
	cfgs := make([]*config.Config, len(points))
	for i, p := range points {
		cfg := base.Clone()
		if err := Apply(cfg, p); err != nil {
			return Trial{}, nil, err
		}
		cfgs[i] = cfg
	}

	g.log.Info("grid search", zap.Int("trials", len(cfgs)), zap.String("metric", metricName))
	results, err := sim.RunBatch(ctx, cfgs, g.limit, metrics, g.log)
	if err != nil {
		return Trial{}, nil, err
	}

	trials := make([]Trial, len(results))
	for i, res := range results {
		val, ok := res.Metrics[metricName]
		if !ok {
			return Trial{}, nil, fmt.Errorf("optim: run produced no metric %q", metricName)
		}
		trials[i] = Trial{Params: points[i], Value: val}
	}
	sort.SliceStable(trials, func(a, b int) bool { return trials[a].Value < trials[b].Value })

	if len(trials) == 0 {
		return Trial{Value: math.Inf(1)}, trials, nil
	}
	return trials[0], trials, nil
}

// Apply writes params into cfg.
func Apply(cfg *config.Config, params map[string]float64) error {
	for name, val := range params {
		switch name {
		case "pull_speed":
			for i := range cfg.Hands {
				cfg.Hands[i].PullSpeed = val
			}
		case "max_grab_distance":
			for i := range cfg.Hands {
				cfg.Hands[i].MaxGrabDistance = val
			}
		case "search_sphere_radius":
			for i := range cfg.Hands {
				cfg.Hands[i].SearchSphereRadius = val
			}
		case "stop_lerp_distance":
			for i := range cfg.Hands {
				cfg.Hands[i].StopLerpDistance = val
			}
		case "dampen_rate":
			for i := range cfg.Objects {
				if r := cfg.Objects[i].Rail; r != nil {
					v := val
					r.DampenRate = &v
				}
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}
	return cfg.Validate()
}

func known(name string) bool {
	for _, p := range Params {
		if p == name {
			return true
		}
	}
	return false
}
