package metrics

import (
	"math"

	"github.com/san-kum/distgrab/internal/grabbable"
	"github.com/san-kum/distgrab/internal/sim"
)

// RailTravel sums the distance, in rail units, that rail objects move.
type RailTravel struct {
	name  string
	last  map[string]float64
	total float64
}

func NewRailTravel() *RailTravel {
	return &RailTravel{name: "rail_travel", last: make(map[string]float64)}
}

func (r *RailTravel) Name() string { return r.name }

func (r *RailTravel) Observe(f *sim.Frame) {
	for _, o := range f.Objects {
		if o.Mode != grabbable.RailConstrained || !o.Alive {
			continue
		}
		if prev, ok := r.last[o.ID]; ok {
			r.total += math.Abs(o.Rail - prev)
		}
		r.last[o.ID] = o.Rail
	}
}

func (r *RailTravel) Value() float64 { return r.total }

func (r *RailTravel) Reset() {
	r.last = make(map[string]float64)
	r.total = 0
}

// PeakDrift is the largest release momentum seen on any rail.
type PeakDrift struct {
	name string
	peak float64
}

func NewPeakDrift() *PeakDrift {
	return &PeakDrift{name: "peak_drift"}
}

func (p *PeakDrift) Name() string { return p.name }

func (p *PeakDrift) Observe(f *sim.Frame) {
	for _, o := range f.Objects {
		if o.Mode == grabbable.RailConstrained {
			p.peak = math.Max(p.peak, math.Abs(o.Drift))
		}
	}
}

func (p *PeakDrift) Value() float64 { return p.peak }

func (p *PeakDrift) Reset() { p.peak = 0 }
