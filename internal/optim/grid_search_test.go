package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/distgrab/internal/config"
	"github.com/san-kum/distgrab/internal/metrics"
)

func TestPoints(t *testing.T) {
	g, err := NewGridSearch([]string{"pull_speed", "stop_lerp_distance"}, [][]float64{{1, 2, 3}, {0.05, 0.1}})
	if err != nil {
		t.Fatal(err)
	}
	pts := g.Points()
	if len(pts) != 6 {
		t.Fatalf("got %d points, want 6", len(pts))
	}
	if pts[0]["pull_speed"] != 1 || pts[0]["stop_lerp_distance"] != 0.05 {
		t.Errorf("first point = %v", pts[0])
	}
	if pts[5]["pull_speed"] != 3 || pts[5]["stop_lerp_distance"] != 0.1 {
		t.Errorf("last point = %v", pts[5])
	}
}

func TestNewGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"gravity"}, [][]float64{{1}}); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("unknown param: got %v", err)
	}
	if _, err := NewGridSearch([]string{"pull_speed"}, nil); err == nil {
		t.Error("mismatched ranges accepted")
	}
	if _, err := NewGridSearch([]string{"pull_speed"}, [][]float64{{}}); err == nil {
		t.Error("empty range accepted")
	}
}

func TestApply(t *testing.T) {
	cfg := config.GetPreset("drawer")
	if err := Apply(cfg, map[string]float64{"pull_speed": 5, "dampen_rate": 2}); err != nil {
		t.Fatal(err)
	}
	if cfg.Hands[0].PullSpeed != 5 {
		t.Errorf("pull_speed = %f", cfg.Hands[0].PullSpeed)
	}
	if r := cfg.Objects[0].Rail; r.DampenRate == nil || *r.DampenRate != 2 {
		t.Error("dampen_rate not applied")
	}

	if err := Apply(cfg, map[string]float64{"pull_speed": -1}); !errors.Is(err, config.ErrInvalidHand) {
		t.Errorf("negative pull speed: got %v", err)
	}
}

func TestSearchPrefersFasterPull(t *testing.T) {
	g, err := NewGridSearch([]string{"pull_speed"}, [][]float64{{2, 6, 4}})
	if err != nil {
		t.Fatal(err)
	}
	base := config.GetPreset("fetch")
	best, trials, err := g.WithLimit(2).Search(context.Background(), base, metrics.Default, "time_to_hand")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 3 {
		t.Fatalf("got %d trials", len(trials))
	}
	if best.Params["pull_speed"] != 6 {
		t.Errorf("best pull_speed = %f, want 6", best.Params["pull_speed"])
	}
	for i := 1; i < len(trials); i++ {
		if trials[i].Value < trials[i-1].Value {
			t.Error("trials not sorted")
		}
	}
	if base.Hands[0].PullSpeed != config.DefaultPullSpeed {
		t.Error("search modified the base scene")
	}
}

func TestSearchUnknownMetric(t *testing.T) {
	g, _ := NewGridSearch([]string{"pull_speed"}, [][]float64{{3}})
	if _, _, err := g.Search(context.Background(), config.GetPreset("fetch"), metrics.Default, "nope"); err == nil {
		t.Error("expected missing metric error")
	}
}
