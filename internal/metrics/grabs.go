package metrics

import (
	"github.com/san-kum/distgrab/internal/grab"
	"github.com/san-kum/distgrab/internal/sim"
)

// EventCount counts grab events of one kind.
type EventCount struct {
	name  string
	kind  grab.EventKind
	count int
}

func NewGrabs() *EventCount {
	return &EventCount{name: "grabs", kind: grab.EventAttach}
}

func NewRejected() *EventCount {
	return &EventCount{name: "rejected", kind: grab.EventRejected}
}

func (c *EventCount) Name() string { return c.name }

func (c *EventCount) Observe(f *sim.Frame) {
	for _, e := range f.Events {
		if e.Kind == c.kind {
			c.count++
		}
	}
}

func (c *EventCount) Value() float64 { return float64(c.count) }

func (c *EventCount) Reset() { c.count = 0 }

// TimeToHand is the mean time from a free-object attach to its lerp
// completing. Aborted pulls are not counted.
type TimeToHand struct {
	name    string
	started map[string]float64
	sum     float64
	samples int
}

func NewTimeToHand() *TimeToHand {
	return &TimeToHand{
		name:    "time_to_hand",
		started: make(map[string]float64),
	}
}

func (m *TimeToHand) Name() string { return m.name }

func (m *TimeToHand) Observe(f *sim.Frame) {
	for _, e := range f.Events {
		switch e.Kind {
		case grab.EventAttach:
			m.started[e.Hand] = e.Time
		case grab.EventLerpComplete:
			if t0, ok := m.started[e.Hand]; ok {
				m.sum += e.Time - t0
				m.samples++
				delete(m.started, e.Hand)
			}
		case grab.EventDetach, grab.EventStale:
			delete(m.started, e.Hand)
		}
	}
}

func (m *TimeToHand) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *TimeToHand) Reset() {
	m.started = make(map[string]float64)
	m.sum = 0
	m.samples = 0
}
