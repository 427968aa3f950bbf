// Package metrics summarizes simulation frames into scalar scores.
package metrics

import "github.com/san-kum/distgrab/internal/sim"

// Default returns a fresh instance of every metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewGrabs(),
		NewRejected(),
		NewTimeToHand(),
		NewRailTravel(),
		NewPeakDrift(),
	}
}

// Names lists the metrics Default returns, in order.
func Names() []string {
	ms := Default()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return names
}
