package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/distgrab/internal/config"
	"github.com/san-kum/distgrab/internal/grab"
	"github.com/san-kum/distgrab/internal/grabbable"
	"github.com/san-kum/distgrab/internal/sim"
)

func TestEventCount(t *testing.T) {
	m := NewGrabs()
	m.Observe(&sim.Frame{Events: []grab.Event{
		{Kind: grab.EventAttach},
		{Kind: grab.EventRejected},
		{Kind: grab.EventAttach},
	}})
	if m.Value() != 2 {
		t.Errorf("grabs = %f, want 2", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("reset failed: %f", m.Value())
	}
}

func TestTimeToHand(t *testing.T) {
	m := NewTimeToHand()
	m.Observe(&sim.Frame{Events: []grab.Event{{Kind: grab.EventAttach, Hand: "a", Time: 1}}})
	m.Observe(&sim.Frame{Events: []grab.Event{{Kind: grab.EventAttach, Hand: "b", Time: 1}}})
	m.Observe(&sim.Frame{Events: []grab.Event{
		{Kind: grab.EventLerpComplete, Hand: "a", Time: 1.5},
		{Kind: grab.EventDetach, Hand: "b", Time: 1.5},
	}})
	m.Observe(&sim.Frame{Events: []grab.Event{{Kind: grab.EventLerpComplete, Hand: "b", Time: 2}}})

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("time_to_hand = %f, want 0.5", m.Value())
	}
}

func TestRailTravel(t *testing.T) {
	m := NewRailTravel()
	for _, pos := range []float64{0, 0.4, 0.2} {
		m.Observe(&sim.Frame{Objects: []sim.ObjectFrame{
			{ID: "d", Mode: grabbable.RailConstrained, Alive: true, Rail: pos},
			{ID: "c", Mode: grabbable.Free, Alive: true, Rail: 5},
		}})
	}
	if math.Abs(m.Value()-0.6) > 1e-12 {
		t.Errorf("rail_travel = %f, want 0.6", m.Value())
	}
}

func TestPeakDrift(t *testing.T) {
	m := NewPeakDrift()
	m.Observe(&sim.Frame{Objects: []sim.ObjectFrame{{Mode: grabbable.RailConstrained, Drift: -1.5}}})
	m.Observe(&sim.Frame{Objects: []sim.ObjectFrame{{Mode: grabbable.RailConstrained, Drift: 0.5}}})
	if m.Value() != 1.5 {
		t.Errorf("peak_drift = %f, want 1.5", m.Value())
	}
}

func TestDefaultOnPresets(t *testing.T) {
	tests := []struct {
		preset   string
		grabs    float64
		rejected float64
		drifts   bool
	}{
		{"fetch", 1, 0, false},
		{"drawer", 1, 0, true},
		{"contest", 1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			res, err := sim.RunScene(context.Background(), config.GetPreset(tt.preset), Default, nil)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := res.Metrics["grabs"]; got != tt.grabs {
				t.Errorf("grabs = %f, want %f", got, tt.grabs)
			}
			if got := res.Metrics["rejected"]; got != tt.rejected {
				t.Errorf("rejected = %f, want %f", got, tt.rejected)
			}
			if got := res.Metrics["peak_drift"] > 0; got != tt.drifts {
				t.Errorf("peak_drift = %f", res.Metrics["peak_drift"])
			}
			for _, name := range Names() {
				if _, ok := res.Metrics[name]; !ok {
					t.Errorf("missing metric %s", name)
				}
			}
		})
	}
}
